package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/yewo0on/HobbyFind/internal/bookmarks"
	"github.com/yewo0on/HobbyFind/internal/catalog"
	"github.com/yewo0on/HobbyFind/internal/models"
)

func main() {
	serverURL := os.Getenv("HOBBYFIND_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}

	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "usage: client <email> <password>")
		os.Exit(1)
	}
	email, password := os.Args[1], os.Args[2]

	ctx := context.Background()
	api := bookmarks.NewHTTPClient(serverURL)

	if err := api.SignIn(ctx, email, password); err != nil {
		log.Fatalf("Sign-in failed: %v", err)
	}
	fmt.Printf("Signed in as %s\n", email)

	syncer := bookmarks.NewSyncer(api, stdoutNotifier{})
	syncer.StartSession(ctx)

	fmt.Println("Commands: list [category] | toggle <hobby-id> | mine | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "list":
			hobbies := catalog.Hobbies
			if len(fields) > 1 {
				if !catalog.ValidCategory(fields[1]) {
					fmt.Printf("Unknown category %q\n", fields[1])
					continue
				}
				hobbies = catalog.ByCategory(models.HobbyCategory(fields[1]))
			}
			printHobbies(hobbies, syncer)
		case "toggle":
			if len(fields) < 2 {
				fmt.Println("usage: toggle <hobby-id>")
				continue
			}
			syncer.Toggle(ctx, fields[1])
			marker := " "
			if syncer.IsBookmarked(fields[1]) {
				marker = "*"
			}
			fmt.Printf("[%s] %s\n", marker, fields[1])
		case "mine":
			summary, err := api.FetchSummary(ctx)
			if err != nil {
				fmt.Printf("Failed to load summary: %v\n", err)
				continue
			}
			printSummary(summary)
		case "quit", "exit":
			syncer.EndSession()
			return
		default:
			fmt.Printf("Unknown command %q\n", fields[0])
		}
	}
}

func printHobbies(hobbies []models.Hobby, syncer *bookmarks.Syncer) {
	for _, h := range hobbies {
		marker := " "
		if syncer.IsBookmarked(h.ID) {
			marker = "*"
		}
		fmt.Printf("[%s] %-12s %-22s %s\n", marker, h.ID, h.Name, models.CategoryLabel[h.Category])
	}
}

func printSummary(summary *bookmarks.Summary) {
	fmt.Printf("%s: %d bookmarked\n", summary.Email, len(summary.Hobbies))
	for _, item := range summary.Summary {
		fmt.Printf("  %-14s %d\n", item.Label, item.Count)
	}
	for _, h := range summary.Hobbies {
		fmt.Printf("  * %s (%s)\n", h.Name, models.CategoryLabel[h.Category])
	}
}

// stdoutNotifier prints toast-style notifications inline
type stdoutNotifier struct{}

func (stdoutNotifier) Notify(title, message string) {
	fmt.Printf("! %s: %s\n", title, message)
}
