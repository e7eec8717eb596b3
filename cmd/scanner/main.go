// Command scanner is the operator-side client: it claims a sector,
// reads "barcode quantity" lines from stdin, and pushes counts through
// the offline submission queue so a flaky network never loses a count.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmaia/balanco/internal/client/api"
	"github.com/dmaia/balanco/internal/client/catalog"
	"github.com/dmaia/balanco/internal/client/queue"
	"github.com/dmaia/balanco/internal/core/domain"
)

func main() {
	var (
		server      = flag.String("server", "http://localhost:8080", "counting server base URL")
		operatorID  = flag.String("operator", "", "operator id")
		inventoryID = flag.Int64("inventory", 0, "inventory id")
		sectorID    = flag.Int64("sector", 0, "sector id to claim")
		backlogPath = flag.String("backlog", "backlog.json", "path of the durable backlog file")
	)
	flag.Parse()

	if *operatorID == "" || *inventoryID == 0 || *sectorID == 0 {
		flag.Usage()
		os.Exit(2)
	}

	ctx := context.Background()
	client := api.New(*server, *operatorID)

	cache := catalog.New(client)
	if err := cache.Reload(ctx, *inventoryID); err != nil {
		log.Fatalf("failed to load product catalog: %v", err)
	}
	log.Printf("loaded %d products for inventory %d", cache.Len(), *inventoryID)

	warning, err := client.ClaimSector(ctx, *sectorID)
	if err != nil {
		var de *domain.Error
		if errors.As(err, &de) && de.Code == "SECTOR_HELD_BY_OTHER" {
			log.Fatalf("sector %d is taken: %v", *sectorID, err)
		}
		log.Fatalf("failed to claim sector %d: %v", *sectorID, err)
	}
	if warning != "" {
		log.Printf("warning: %s", warning)
	}
	log.Printf("counting sector %d as %s", *sectorID, *operatorID)

	q := queue.New(client, queue.NewFileStore(*backlogPath), queue.Options{})
	if err := q.Start(); err != nil {
		log.Fatalf("failed to start submission queue: %v", err)
	}
	defer q.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		barcode := fields[0]
		quantity := int64(1)
		if len(fields) > 1 {
			quantity, err = strconv.ParseInt(fields[1], 10, 64)
			if err != nil || quantity < 0 {
				fmt.Printf("bad quantity %q, try again\n", fields[1])
				continue
			}
		}

		product, ok := cache.LookupBarcode(barcode)
		if !ok {
			product, ok = cache.LookupCode(barcode)
		}
		if !ok {
			fmt.Printf("unknown product %q\n", barcode)
			continue
		}

		q.Submit(domain.CountDraft{
			SectorID:   *sectorID,
			ProductID:  product.ID,
			Quantity:   quantity,
			OperatorID: *operatorID,
		})
		fmt.Printf("queued %s x%d\n", product.Description, quantity)
	}
	if err := scanner.Err(); err != nil {
		log.Printf("stdin error: %v", err)
	}

	log.Println("flushing pending submissions...")
	flushCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := q.Flush(flushCtx); err != nil {
		log.Printf("flush did not finish: %v", err)
	}

	backlog := q.Backlog()
	if len(backlog) == 0 {
		log.Println("all counts saved")
		return
	}
	log.Printf("%d counts still pending sync:", len(backlog))
	for _, sub := range backlog {
		log.Printf("  product %d x%d (%s, attempts %d): %s",
			sub.Draft.ProductID, sub.Draft.Quantity, sub.Status, sub.RetryCount, sub.LastError)
	}
	os.Exit(1)
}
