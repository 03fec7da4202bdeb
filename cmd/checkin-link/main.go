// Command checkin-link prints the shareable check-in page URL for an event.
//
// Organizers post the printed URL (or embed it in a QR code) so attendees
// can open the check-in page from their phones at the venue.
//
// Usage:
//
//	checkin-link -event event:abc123
//	checkin-link -event event:abc123 -origin https://api.campushub.app
//	checkin-link -event event:abc123 -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
)

func main() {
	var (
		origin  = flag.String("origin", "", "Public origin of the API server (default: SERVER_PUBLIC_ORIGIN or http://localhost:8080)")
		eventID = flag.String("event", "", "Event ID to generate the check-in link for (required)")
		jsonOut = flag.Bool("json", false, "Output as JSON")
	)
	flag.Parse()

	if *eventID == "" {
		fmt.Fprintln(os.Stderr, "Error: -event is required")
		flag.Usage()
		os.Exit(1)
	}

	resolved := *origin
	if resolved == "" {
		resolved = os.Getenv("SERVER_PUBLIC_ORIGIN")
	}
	if resolved == "" {
		resolved = "http://localhost:8080"
	}

	pageURL := fmt.Sprintf("%s/event/%s/checkin", resolved, *eventID)
	deepLink := fmt.Sprintf("campushub://event/%s/checkin", *eventID)

	if *jsonOut {
		output := map[string]string{
			"event_id":  *eventID,
			"url":       pageURL,
			"deep_link": deepLink,
		}
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to encode output: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Check-in link generated:")
	fmt.Println()
	fmt.Printf("  Event:     %s\n", *eventID)
	fmt.Printf("  Page URL:  %s\n", pageURL)
	fmt.Printf("  Deep link: %s\n", deepLink)
	fmt.Println()
	fmt.Println("Share the page URL or embed it in a QR code at the venue.")
}
