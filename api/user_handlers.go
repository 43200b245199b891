package api

import (
	"encoding/json"
	"net/http"

	"github.com/samber/lo"

	"unimarket/repositories"
	"unimarket/services"
)

type userResponse struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	Email          string  `json:"email"`
	FirstName      string  `json:"first_name"`
	LastName       string  `json:"last_name"`
	ProfilePicture *string `json:"profile_picture"`
}

func toUserResponse(user repositories.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		ProfilePicture: user.ProfilePicture,
	}
}

// sessionResponse is the login/signup reply. The Authorization value is
// ready to be echoed back verbatim in the header of subsequent requests.
type sessionResponse struct {
	Authorization string       `json:"Authorization"`
	User          userResponse `json:"user"`
}

func session(token services.Token, user repositories.User) sessionResponse {
	return sessionResponse{
		Authorization: "Token " + string(token),
		User:          toUserResponse(user),
	}
}

func (rt *Router) signup(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username  string `json:"username"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		FirstName string `json:"first_name"`
		LastName  string `json:"last_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	token, user, err := rt.auth.Signup(services.SignupCommand{
		Username:  body.Username,
		Email:     body.Email,
		Password:  body.Password,
		FirstName: body.FirstName,
		LastName:  body.LastName,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session(token, user))
}

func (rt *Router) login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	token, user, err := rt.auth.Login(body.Username, body.Password)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session(token, user))
}

func (rt *Router) listUsers(w http.ResponseWriter, _ *http.Request) {
	users, err := rt.users.ListUsers()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"users": lo.Map(users, func(u repositories.User, _ int) userResponse {
		return toUserResponse(u)
	})})
}

func (rt *Router) updateProfile(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email          string  `json:"email"`
		FirstName      string  `json:"first_name"`
		LastName       string  `json:"last_name"`
		ProfilePicture *string `json:"profile_picture"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	user, err := rt.auth.UpdateProfile(services.UpdateProfileCommand{
		UserID:         userFrom(r).ID,
		Email:          body.Email,
		FirstName:      body.FirstName,
		LastName:       body.LastName,
		ProfilePicture: body.ProfilePicture,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, toUserResponse(user))
}

func (rt *Router) changePassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid body"})
		return
	}

	if err := rt.auth.ChangePassword(userFrom(r).ID, body.Password); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
