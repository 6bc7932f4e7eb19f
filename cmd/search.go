package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"pearpanel/pkg/config"
	"pearpanel/pkg/search"

	"github.com/spf13/cobra"
)

var searchQueryText string

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the player library for a song",
	Long:  "Sends a search request to the player, extracts song results, and prints the best match.",
	Run: func(cmd *cobra.Command, args []string) {
		query := resolveQuery(args)
		if query == "" {
			fmt.Println("a search query is required")
			return
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			fmt.Printf("failed to load config: %v\n", err)
			return
		}

		bounds := search.Bounds{
			MinSeconds: cfg.Search.MinSeconds,
			MaxSeconds: cfg.Search.MaxSeconds,
		}
		client := search.NewClient(cfg.Player.Host, bounds, nil)

		song, err := client.FindSong(context.Background(), query)
		if err != nil {
			if errors.Is(err, search.ErrNoResults) {
				fmt.Println("no songs found")
				return
			}
			if errors.Is(err, search.ErrDurationOutOfRange) {
				fmt.Println("best match rejected: duration out of range")
				return
			}
			fmt.Printf("search failed: %v\n", err)
			return
		}

		for _, line := range songLines(song) {
			fmt.Println(line)
		}
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQueryText, "query", "q", "", "search query text")
}

func resolveQuery(args []string) string {
	if value := strings.TrimSpace(searchQueryText); value != "" {
		return value
	}

	return strings.TrimSpace(strings.Join(args, " "))
}

func songLines(song search.Song) []string {
	lines := []string{
		fmt.Sprintf("Title:    %s", song.Title),
		fmt.Sprintf("Artist:   %s", song.Artist),
		fmt.Sprintf("Video ID: %s", song.VideoID),
	}

	if song.Duration != "" {
		lines = append(lines, fmt.Sprintf("Duration: %s", song.Duration))
	}
	if song.ImageURL != "" {
		lines = append(lines, fmt.Sprintf("Artwork:  %s", song.ImageURL))
	}

	return lines
}
