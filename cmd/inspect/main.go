package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/fxamacker/cbor/v2"
	"github.com/joho/godotenv"
	"github.com/olekukonko/tablewriter"
)

// inspect dumps the records behind a key prefix as a readable table.
// Prefixes: msg: (messages), user: (accounts), ad: (ads), report: (reports).
func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", os.Getenv("BADGER_FILEPATH"), "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			key := string(item.Key())

			// Marker and index keys carry no decodable payload.
			if strings.HasPrefix(key, "usr:") || strings.HasPrefix(key, "uid:") || strings.HasPrefix(key, "uemail:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(describe(key, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal("Error while scanning: ", err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	// BypassLockGuard allows opening while the server holds the lock.
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithBypassLockGuard(true).
		WithLoggingLevel(badger.WARNING)
	return badger.Open(opts)
}

func describe(key string, val []byte) []string {
	switch {
	case strings.HasPrefix(key, "msg:"):
		var m struct {
			ID       string `cbor:"id"`
			Sender   string `cbor:"sender"`
			Receiver string `cbor:"receiver"`
			Text     string `cbor:"text"`
			At       int64  `cbor:"at"`
		}
		if err := cbor.Unmarshal(val, &m); err != nil {
			return rawRow(key, val, err)
		}
		return []string{key, "MESSAGE", stamp(m.At), short(m.ID), fmt.Sprintf("%s -> %s: %s", short(m.Sender), short(m.Receiver), m.Text)}

	case strings.HasPrefix(key, "user:"):
		var u struct {
			ID        string `cbor:"id"`
			Username  string `cbor:"username"`
			Email     string `cbor:"email"`
			CreatedAt int64  `cbor:"created_at"`
		}
		if err := cbor.Unmarshal(val, &u); err != nil {
			return rawRow(key, val, err)
		}
		return []string{key, "USER", stamp(u.CreatedAt * int64(time.Second)), short(u.ID), fmt.Sprintf("%s <%s>", u.Username, u.Email)}

	case strings.HasPrefix(key, "ad:"):
		var a struct {
			ID        string `cbor:"id"`
			Title     string `cbor:"title"`
			Status    string `cbor:"status"`
			CreatedAt int64  `cbor:"created_at"`
		}
		if err := cbor.Unmarshal(val, &a); err != nil {
			return rawRow(key, val, err)
		}
		return []string{key, "AD", stamp(a.CreatedAt), short(a.ID), fmt.Sprintf("[%s] %s", a.Status, a.Title)}

	case strings.HasPrefix(key, "report:"):
		var r struct {
			ID         string `cbor:"id"`
			Reason     string `cbor:"reason"`
			ReportedAt int64  `cbor:"reported_at"`
		}
		if err := cbor.Unmarshal(val, &r); err != nil {
			return rawRow(key, val, err)
		}
		return []string{key, "REPORT", stamp(r.ReportedAt), short(r.ID), r.Reason}
	}
	return rawRow(key, val, nil)
}

func rawRow(key string, val []byte, err error) []string {
	detail := fmt.Sprintf("size: %d bytes", len(val))
	if err != nil {
		detail = fmt.Sprintf("undecodable: %v", err)
	}
	return []string{key, "RAW", "--:--:--", "--------", detail}
}

func stamp(nanos int64) string {
	if nanos == 0 {
		return "--:--:--"
	}
	return time.Unix(0, nanos).Format("15:04:05")
}

func short(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
