// Command archivectl-sidecar inspects and backs up the bbolt database that
// backs pkg/sidecar (URI counters, enrichment checkpoints).
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"
)

var (
	dataDir = flag.String("data-dir", "./workspace", "Directory holding sidecar.db")
	dryRun  = flag.Bool("dry-run", true, "List bucket contents and sizes without making changes")
	backup  = flag.Bool("backup", false, "Back up sidecar.db to a .backup suffix before opening it")
	run     = flag.String("run", "", "Restrict inspection to a single run key (default: all runs)")
)

func main() {
	flag.Parse()
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	dbPath := filepath.Join(*dataDir, "sidecar.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		log.Fatalf("sidecar database not found at %s", dbPath)
	}

	if *backup {
		backupPath := dbPath + ".backup"
		log.Printf("backing up %s to %s", dbPath, backupPath)
		if err := copyFile(dbPath, backupPath); err != nil {
			log.Fatalf("backup failed: %v", err)
		}
		log.Println("backup created")
	}

	db, err := bolt.Open(dbPath, 0600, &bolt.Options{ReadOnly: *dryRun})
	if err != nil {
		log.Fatalf("open sidecar database: %v", err)
	}
	defer db.Close()

	if err := inspect(db, *run); err != nil {
		log.Fatalf("inspect failed: %v", err)
	}
}

// inspect prints each bucket's keys, the byte size of each value, and a
// best-effort JSON validity check.
func inspect(db *bolt.DB, runFilter string) error {
	return db.View(func(tx *bolt.Tx) error {
		return tx.ForEach(func(name []byte, b *bolt.Bucket) error {
			fmt.Printf("bucket %q:\n", name)
			count := 0
			err := b.ForEach(func(k, v []byte) error {
				key := string(k)
				if runFilter != "" && key != runFilter {
					return nil
				}
				count++
				valid := json.Valid(v)
				fmt.Printf("  %s: %d bytes, valid_json=%v\n", key, len(v), valid)
				return nil
			})
			if err != nil {
				return err
			}
			if count == 0 {
				fmt.Println("  (empty)")
			}
			return nil
		})
	})
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy contents: %w", err)
	}
	return out.Sync()
}
