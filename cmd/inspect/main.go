// Read-only dump of the BadgerDB key space, for debugging a live or
// stopped server. Defaults to message records; pass -prefix to scan
// other families (user:, ws:, session:, notif:).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/olekukonko/tablewriter"

	"team-hub/domain"
)

func main() {
	dbPath := flag.String("db", "/tmp/team-hub", "Path to badger DB")
	prefix := flag.String("prefix", "msgid:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Channel", "Sender", "Timestamp", "Content", "Reactions"})
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
			rawKey := string(item.Key())

			err := item.Value(func(v []byte) error {
				var m domain.Message
				if err := json.Unmarshal(v, &m); err != nil {
					// Not a message record; show the raw value instead
					table.Append([]string{rawKey, "", "", "", string(v), ""})
					return nil
				}

				target := string(m.ChannelID)
				if m.Direct() {
					target = "dm:" + string(m.RecipientID)
				}
				reactions := ""
				for _, r := range m.Reactions {
					reactions += fmt.Sprintf("%s:%s ", r.UserID, r.Emoji)
				}

				table.Append([]string{
					rawKey,
					target,
					string(m.SenderID),
					m.CreatedAt.Format("15:04:05"),
					m.Content,
					reactions,
				})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
