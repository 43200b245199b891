//go:generate go run go.uber.org/mock/mockgen -source=report.go -destination=../mocks/mock_report_repository.go -package=mocks
package repositories

import (
	"fmt"

	"unimarket/domain/ads"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
)

type IReportRepository interface {
	StoreReport(report ads.Report) error
	ReportsForAd(adID uuid.UUID) ([]ads.Report, error)
}

// ReportRepository persists moderation reports filed against ads. Keys are
// "report:{ad_id}:{timestamp_padded}:{report_id}" so the reports of one ad
// form a contiguous, chronologically sorted range.
type ReportRepository struct {
	db *badger.DB
}

func NewReportRepository(db *badger.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

type diskReport struct {
	ID           string  `cbor:"id"`
	AdID         string  `cbor:"ad_id"`
	ReportedBy   *string `cbor:"reported_by"`
	Reason       string  `cbor:"reason"`
	OtherDetails string  `cbor:"other_details"`
	ReportedAt   int64   `cbor:"reported_at"` // unix nanos
}

func (r *ReportRepository) StoreReport(report ads.Report) error {
	key := fmt.Sprintf("report:%s:%019d:%s",
		report.AdID,
		report.ReportedAt.UnixNano(),
		report.ID,
	)
	bytes, err := cbor.Marshal(fromReport(report))
	if err != nil {
		return err
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

func (r *ReportRepository) ReportsForAd(adID uuid.UUID) ([]ads.Report, error) {
	var reports []ads.Report
	prefix := []byte(fmt.Sprintf("report:%s:", adID))

	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				var dr diskReport
				if err := cbor.Unmarshal(val, &dr); err != nil {
					return err
				}
				report, err := toReport(dr)
				if err != nil {
					return err
				}
				reports = append(reports, report)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return reports, err
}

func fromReport(report ads.Report) diskReport {
	return diskReport{
		ID:           report.ID.String(),
		AdID:         report.AdID.String(),
		ReportedBy:   report.ReportedBy,
		Reason:       string(report.Reason),
		OtherDetails: report.OtherDetails,
		ReportedAt:   report.ReportedAt.UnixNano(),
	}
}

func toReport(dr diskReport) (ads.Report, error) {
	parsedID, err := uuid.Parse(dr.ID)
	if err != nil {
		return ads.Report{}, err
	}
	parsedAdID, err := uuid.Parse(dr.AdID)
	if err != nil {
		return ads.Report{}, err
	}
	return ads.Report{
		ID:           parsedID,
		AdID:         parsedAdID,
		ReportedBy:   dr.ReportedBy,
		Reason:       ads.ReportReason(dr.Reason),
		OtherDetails: dr.OtherDetails,
		ReportedAt:   timeFromNanos(dr.ReportedAt),
	}, nil
}
