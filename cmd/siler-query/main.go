package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/krstm/Siler/internal/database"
	"github.com/krstm/Siler/internal/exitcodes"
)

func main() {
	// Parse command-line flags
	dbPath := flag.String("db", "/var/lib/siler/wipes.db", "Path to wipe history database")
	recent := flag.Int("recent", 0, "Show N most recent wipes")
	stats := flag.Bool("stats", false, "Show wipe statistics")
	action := flag.String("action", "", "Filter by action (WIPE, RMDIR, ERROR, DRY_RUN)")
	pathPattern := flag.String("path", "", "Filter by path pattern (SQL LIKE syntax)")
	largest := flag.Int("largest", 0, "Show N largest wipes")
	days := flag.Int("days", 30, "Number of days for statistics (default: 30)")
	purge := flag.Int("purge", 0, "Delete history records older than N days")
	jsonOutput := flag.Bool("json", false, "Output in JSON format")
	flag.Parse()

	// Open database
	db, err := database.NewWipeDB(*dbPath)
	if err != nil {
		log.Fatalf("ERROR: Failed to open database %s: %v", *dbPath, err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("ERROR: Failed to close database: %v", err)
		}
	}()

	// Handle different query modes
	switch {
	case *stats:
		showStats(db, *days, *jsonOutput)
	case *recent > 0:
		showRecent(db, *recent, *jsonOutput)
	case *action != "":
		showByAction(db, *action, *jsonOutput)
	case *pathPattern != "":
		showByPath(db, *pathPattern, *jsonOutput)
	case *largest > 0:
		showLargest(db, *largest, *jsonOutput)
	case *purge > 0:
		purgeOld(db, *purge)
	default:
		flag.Usage()
		fmt.Println("\nExamples:")
		fmt.Println("  siler-query --recent 10          # Show 10 most recent wipes")
		fmt.Println("  siler-query --stats              # Show wipe statistics")
		fmt.Println("  siler-query --action WIPE        # Show only completed file wipes")
		fmt.Println("  siler-query --path '/home/%'     # Show wipes under /home")
		fmt.Println("  siler-query --largest 10         # Show 10 largest wipes")
		fmt.Println("  siler-query --purge 90           # Drop records older than 90 days")
		os.Exit(exitcodes.InvalidConfig)
	}
}

func showStats(db *database.WipeDB, days int, jsonOutput bool) {
	stats, err := db.GetWipeStats(days)
	if err != nil {
		log.Fatalf("ERROR: Failed to get statistics: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(stats, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Wipe Statistics (Last %d days)\n", days)
	fmt.Printf("Period: %s to %s\n\n", stats.StartDate.Format("2006-01-02"), stats.EndDate.Format("2006-01-02"))
	fmt.Printf("Files Wiped:      %d\n", stats.TotalFiles)
	fmt.Printf("Dirs Removed:     %d\n", stats.TotalDirs)
	fmt.Printf("Errors:           %d\n", stats.TotalErrors)
	fmt.Printf("Bytes Destroyed:  %s\n\n", formatBytes(stats.TotalBytesWiped))

	if len(stats.ByAction) > 0 {
		fmt.Println("By Action:")
		for action, count := range stats.ByAction {
			fmt.Printf("  %-15s %d\n", action, count)
		}
	}
}

func showRecent(db *database.WipeDB, limit int, jsonOutput bool) {
	records, err := db.GetRecentWipes(limit)
	if err != nil {
		log.Fatalf("ERROR: Failed to get recent wipes: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return
	}

	printRecords(records)
}

func showByAction(db *database.WipeDB, action string, jsonOutput bool) {
	records, err := db.GetWipesByAction(action)
	if err != nil {
		log.Fatalf("ERROR: Failed to query by action: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Records with action: %s\n\n", action)
	printRecords(records)
}

func showByPath(db *database.WipeDB, pathPattern string, jsonOutput bool) {
	records, err := db.GetWipesByPath(pathPattern)
	if err != nil {
		log.Fatalf("ERROR: Failed to query by path: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Wipes matching path pattern: %s\n\n", pathPattern)
	printRecords(records)
}

func showLargest(db *database.WipeDB, limit int, jsonOutput bool) {
	records, err := db.GetLargestWipes(limit)
	if err != nil {
		log.Fatalf("ERROR: Failed to get largest wipes: %v", err)
	}

	if jsonOutput {
		data, _ := json.MarshalIndent(records, "", "  ")
		fmt.Println(string(data))
		return
	}

	fmt.Printf("Largest %d wipes:\n\n", limit)
	printRecords(records)
}

func purgeOld(db *database.WipeDB, days int) {
	deleted, err := db.DeleteOldRecords(days)
	if err != nil {
		log.Fatalf("ERROR: Failed to purge old records: %v", err)
	}
	fmt.Printf("Deleted %d records older than %d days\n", deleted, days)
}

func printRecords(records []database.WipeRecord) {
	if len(records) == 0 {
		fmt.Println("No records found")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "ID\tTimestamp\tAction\tType\tSize\tRounds\tPath")
	_, _ = fmt.Fprintln(w, "--\t---------\t------\t----\t----\t------\t----")

	for _, r := range records {
		timestamp := r.Timestamp.Format("2006-01-02 15:04:05")
		size := formatBytes(r.Size)
		_, _ = fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%d\t%s\n",
			r.ID, timestamp, r.Action, r.ObjectType, size, r.Rounds, r.Path)
	}
	_ = w.Flush()
}

func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %cB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
