//go:generate go run go.uber.org/mock/mockgen -source=ad.go -destination=../mocks/mock_ad_repository.go -package=mocks
package repositories

import (
	"context"
	goerrors "errors"
	"log/slog"
	"sort"
	"time"

	"unimarket/domain/ads"
	"unimarket/errors"

	"github.com/blugelabs/bluge"
	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IAdRepository interface {
	CreateAd(ad ads.Ad) error
	GetAd(id uuid.UUID) (ads.Ad, error)
	UpdateAd(ad ads.Ad) error
	ListAds(filter ads.Filter) ([]ads.Ad, error)
	SearchAds(ctx context.Context, terms string, limit int) ([]ads.Ad, error)
}

// AdRepository keeps the canonical ad records in BadgerDB and mirrors the
// searchable text fields into a Bluge index. Badger stays the source of
// truth: search results are resolved back through the primary store, so a
// stale index entry degrades to a missing result, never to wrong data.
type AdRepository struct {
	db          *badger.DB
	blugeWriter *bluge.Writer
	log         *slog.Logger
}

func NewAdRepository(db *badger.DB, blugeWriter *bluge.Writer, log *slog.Logger) *AdRepository {
	return &AdRepository{db: db, blugeWriter: blugeWriter, log: log}
}

type diskAd struct {
	ID          string   `cbor:"id"`
	Title       string   `cbor:"title"`
	Description string   `cbor:"description"`
	Type        string   `cbor:"type"`
	Category    string   `cbor:"category"`
	Location    string   `cbor:"location"`
	Status      string   `cbor:"status"`
	Price       *float64 `cbor:"price"`
	CreatedAt   int64    `cbor:"created_at"` // unix nanos
	OwnerID     string   `cbor:"owned_by"`
	Images      []string `cbor:"images"`
}

func (a *AdRepository) CreateAd(ad ads.Ad) error {
	if err := a.put(ad); err != nil {
		return err
	}
	return a.index(ad)
}

func (a *AdRepository) GetAd(id uuid.UUID) (ads.Ad, error) {
	var da diskAd

	err := a.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(adKey(id))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return cbor.Unmarshal(val, &da)
		})
	})
	if goerrors.Is(err, badger.ErrKeyNotFound) {
		return ads.Ad{}, errors.ErrAdNotFound
	}
	if err != nil {
		return ads.Ad{}, err
	}
	return toAd(da)
}

// UpdateAd rewrites the record in place. A deleted ad (status DE) is removed
// from the search index but kept in Badger so existing conversations about
// it keep resolving.
func (a *AdRepository) UpdateAd(ad ads.Ad) error {
	if err := a.put(ad); err != nil {
		return err
	}
	if ad.Status == ads.StatusDeleted {
		return a.blugeWriter.Delete(bluge.Identifier(ad.ID.String()))
	}
	return a.index(ad)
}

// ListAds scans the ad keyspace and applies the filter in memory, newest
// first. The dataset is campus-sized; a secondary index per filter column is
// not worth the write amplification here.
func (a *AdRepository) ListAds(filter ads.Filter) ([]ads.Ad, error) {
	var result []ads.Ad
	prefix := []byte("ad:")

	err := a.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var da diskAd
				if err := cbor.Unmarshal(val, &da); err != nil {
					return err
				}
				ad, err := toAd(da)
				if err != nil {
					return err
				}
				if filter.Matches(ad) {
					result = append(result, ad)
				}
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

// SearchAds runs a full-text match over title and description and resolves
// the hits through the primary store. Hits whose record has since been
// deleted are skipped.
func (a *AdRepository) SearchAds(ctx context.Context, terms string, limit int) ([]ads.Ad, error) {
	reader, err := a.blugeWriter.Reader()
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = reader.Close()
	}()

	query := bluge.NewBooleanQuery().
		AddShould(bluge.NewMatchQuery(terms).SetField("title")).
		AddShould(bluge.NewMatchQuery(terms).SetField("description"))

	iterator, err := reader.Search(ctx, bluge.NewTopNSearch(limit, query))
	if err != nil {
		return nil, err
	}

	var result []ads.Ad
	for {
		match, err := iterator.Next()
		if err != nil {
			return nil, err
		}
		if match == nil {
			break
		}

		var id string
		err = match.VisitStoredFields(func(field string, value []byte) bool {
			if field == "_id" {
				id = string(value)
				return false
			}
			return true
		})
		if err != nil {
			return nil, err
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			a.log.Warn("search hit with unparsable id", "id", id)
			continue
		}
		ad, err := a.GetAd(parsedID)
		if goerrors.Is(err, errors.ErrAdNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		result = append(result, ad)
	}
	return result, nil
}

func (a *AdRepository) put(ad ads.Ad) error {
	bytes, err := cbor.Marshal(fromAd(ad))
	if err != nil {
		return err
	}
	return a.db.Update(func(txn *badger.Txn) error {
		return txn.Set(adKey(ad.ID), bytes)
	})
}

func (a *AdRepository) index(ad ads.Ad) error {
	doc := bluge.NewDocument(ad.ID.String())
	doc.AddField(bluge.NewTextField("title", ad.Title))
	doc.AddField(bluge.NewTextField("description", ad.Description))
	return a.blugeWriter.Update(doc.ID(), doc)
}

func timeFromNanos(nanos int64) time.Time {
	return time.Unix(0, nanos).UTC()
}

func adKey(id uuid.UUID) []byte {
	return []byte("ad:" + id.String())
}

func fromAd(ad ads.Ad) diskAd {
	return diskAd{
		ID:          ad.ID.String(),
		Title:       ad.Title,
		Description: ad.Description,
		Type:        string(ad.Type),
		Category:    ad.Category,
		Location:    ad.Location,
		Status:      string(ad.Status),
		Price:       ad.Price,
		CreatedAt:   ad.CreatedAt.UnixNano(),
		OwnerID:     ad.OwnerID,
		Images:      ad.Images,
	}
}

func toAd(da diskAd) (ads.Ad, error) {
	parsedID, err := uuid.Parse(da.ID)
	if err != nil {
		return ads.Ad{}, err
	}
	return ads.Ad{
		ID:          parsedID,
		Title:       da.Title,
		Description: da.Description,
		Type:        ads.AdType(da.Type),
		Category:    da.Category,
		Location:    da.Location,
		Status:      ads.Status(da.Status),
		Price:       da.Price,
		CreatedAt:   timeFromNanos(da.CreatedAt),
		OwnerID:     da.OwnerID,
		Images:      da.Images,
	}, nil
}
