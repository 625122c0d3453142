package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

func init() {
	seq := &cobra.Command{
		Use:     "sequence",
		Aliases: []string{"seq"},
		Short:   "Work with onboarding sequences",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List sequences",
		Args:  cobra.NoArgs,
		Run:   runSequenceList,
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a sequence with its timeline in order",
		Args:  cobra.ExactArgs(1),
		Run:   runSequenceShow,
	}
	show.Flags().Bool("timeline", false, "Only print the timeline")

	dup := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Duplicate a sequence",
		Args:  cobra.ExactArgs(1),
		Run:   runSequenceDuplicate,
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a sequence on the platform",
		Args:  cobra.ExactArgs(1),
		Run:   runSequenceRm,
	}

	seq.AddCommand(list, show, dup, rm)
	RootCmd.AddCommand(seq)
}

func runSequenceList(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	seqs, err := c.Sequences().List(ctx)
	if err != nil {
		exitAPI("list sequences", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(seqs)
		return
	}
	for _, sq := range seqs {
		auto := ""
		if sq.AutoAdd {
			auto = paint(styleGreen, " auto-add")
		}
		fmt.Printf("%s %s%s\n", paint(styleDim, fmt.Sprintf("#%d", sq.ID)), sq.Name, auto)
	}
}

func runSequenceShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	onlyTimeline, _ := cmd.Flags().GetBool("timeline")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	seq, err := c.Sequences().GetOrdered(ctx, id)
	if err != nil {
		exitAPI("get sequence", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		if onlyTimeline {
			printJSON(seq.Conditions)
			return
		}
		printJSON(seq)
		return
	}
	if !onlyTimeline {
		fmt.Println(header(seq.Name))
	}
	fmt.Println(renderTimeline(seq.Conditions))
}

func runSequenceDuplicate(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	dup, err := c.Sequences().Duplicate(ctx, id)
	if err != nil {
		exitAPI("duplicate sequence", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d,"name":%q}`+"\n", dup.ID, dup.Name)
}

func runSequenceRm(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Sequences().Remove(ctx, id); err != nil {
		exitAPI("delete sequence", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d}`+"\n", id)
}

func parseID(s string) int {
	id, err := strconv.Atoi(strings.TrimPrefix(s, "#"))
	if err != nil || id <= 0 {
		exitErr("parse id", fmt.Errorf("%q is not a valid id", s))
	}
	return id
}

// parseIDs reads a comma-separated id list.
func parseIDs(s string) []int {
	var ids []int
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ids = append(ids, parseID(part))
	}
	return ids
}
