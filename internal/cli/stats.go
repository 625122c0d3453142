package cli

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show workspace statistics",
		Run:   runStats,
	}

	RootCmd.AddCommand(cmd)
}

func runStats(cmd *cobra.Command, args []string) {
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	stats, err := s.Stats(cmd.Context(), getDBPath())
	if err != nil {
		exitErr("stats", err)
	}

	if isJSON() {
		printJSON(stats)
		return
	}

	fmt.Println(header("Workspace"))
	fmt.Printf("%s %s\n", stats.DBPath, paint(styleDim, humanize.Bytes(uint64(stats.DBSizeBytes))))
	fmt.Printf("drafts: %d active, %d stored\n", stats.ActiveDrafts, stats.TotalDrafts)
	if stats.HasSession {
		fmt.Printf("session saved %s\n", humanize.Time(*stats.SessionUpdatedAt))
	} else {
		fmt.Println(paint(styleDim, "not signed in"))
	}
	for _, sq := range stats.Sequences {
		fmt.Printf("  %s %s %s %s\n", paint(styleDim, fmt.Sprintf("#%d", sq.SequenceID)), sq.Name,
			paint(styleBlue, fmt.Sprintf("%d versions", sq.Versions)), paint(styleDim, humanize.Time(sq.LastSaved)))
	}
}
