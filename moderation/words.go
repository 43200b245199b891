package moderation

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// LoadCensoredWords reads blacklisted words from every .txt file in dir, one
// word per line, deduplicated across files. Each file is a language
// dictionary ("en.txt", "fr.txt", ...); blank lines and surrounding
// whitespace are ignored.
func LoadCensoredWords(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	unique := make(map[string]struct{})
	var words []string

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".txt" {
			continue
		}

		file, err := os.Open(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}

		// A scanner handles both \n and \r\n line endings.
		scanner := bufio.NewScanner(file)
		for scanner.Scan() {
			word := strings.TrimSpace(scanner.Text())
			if word == "" {
				continue
			}
			if _, seen := unique[word]; seen {
				continue
			}
			unique[word] = struct{}{}
			words = append(words, word)
		}
		err = scanner.Err()
		_ = file.Close()
		if err != nil {
			return nil, err
		}
	}
	return words, nil
}
