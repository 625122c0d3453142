package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/model"
	"github.com/rcliao/onboard/internal/state"
	"github.com/rcliao/onboard/internal/store"
)

var draftCmd = &cobra.Command{
	Use:   "draft",
	Short: "Edit sequences offline as versioned drafts",
	Long: "Pull a sequence into a local draft, change it step by step and push it back.\n" +
		"Every change is saved as a new draft version; the timeline stays in trigger order.",
}

func init() {
	pull := &cobra.Command{
		Use:   "pull <seq-id>",
		Short: "Fetch a sequence into a new draft version",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftPull,
	}

	show := &cobra.Command{
		Use:   "show <seq-id>",
		Short: "Show a draft",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftShow,
	}
	show.Flags().Bool("history", false, "List all versions (newest first)")
	show.Flags().Int("version", 0, "Specific version number")

	list := &cobra.Command{
		Use:   "list",
		Short: "List drafts (latest version per sequence)",
		Args:  cobra.NoArgs,
		Run:   runDraftList,
	}
	list.Flags().IntP("limit", "l", 50, "Max results")

	rm := &cobra.Command{
		Use:   "rm <seq-id>",
		Short: "Delete a draft",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftRm,
	}
	rm.Flags().Bool("all-versions", false, "Delete all versions")
	rm.Flags().Bool("hard", false, "Permanent delete (irreversible)")

	draftCmd.AddCommand(pull, show, list, rm)
	RootCmd.AddCommand(draftCmd)
}

func runDraftPull(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	seq, err := c.Sequences().Get(ctx, id)
	if err != nil {
		exitAPI("get sequence", err)
	}
	saveSession(ctx, s, c)

	var st state.Sequences
	st.SetSequence(*seq)
	st.SetName(seq.Name)
	d := saveDraft(ctx, s, &st)
	printDraft(d, &st)
}

func runDraftShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	history, _ := cmd.Flags().GetBool("history")
	version, _ := cmd.Flags().GetInt("version")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	drafts, err := s.GetDraft(cmd.Context(), store.GetDraftParams{
		SequenceID: id,
		History:    history,
		Version:    version,
	})
	if err != nil {
		exitErr("get draft", err)
	}

	if history {
		if isJSON() {
			printJSON(drafts)
			return
		}
		for _, d := range drafts {
			fmt.Printf("%s %s %s\n", paint(styleBlue, fmt.Sprintf("v%d", d.Version)), d.Name, paint(styleDim, humanize.Time(d.CreatedAt)))
		}
		return
	}

	st := decodeDraft(&drafts[0])
	printDraft(&drafts[0], st)
}

func runDraftList(cmd *cobra.Command, args []string) {
	limit, _ := cmd.Flags().GetInt("limit")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	drafts, err := s.ListDrafts(cmd.Context(), store.ListDraftsParams{Limit: limit})
	if err != nil {
		exitErr("list drafts", err)
	}

	if isJSON() {
		printJSON(drafts)
		return
	}
	for _, d := range drafts {
		fmt.Printf("%s %s %s %s\n",
			paint(styleDim, fmt.Sprintf("#%d", d.SequenceID)), d.Name,
			paint(styleBlue, fmt.Sprintf("v%d", d.Version)), paint(styleDim, humanize.Time(d.CreatedAt)))
	}
}

func runDraftRm(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	allVersions, _ := cmd.Flags().GetBool("all-versions")
	hard, _ := cmd.Flags().GetBool("hard")

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	err = s.RmDraft(cmd.Context(), store.RmDraftParams{
		SequenceID:  id,
		AllVersions: allVersions,
		Hard:        hard,
	})
	if err != nil {
		exitErr("rm draft", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), `{"ok":true,"sequence_id":%d}`+"\n", id)
}

// loadDraft returns the editor state of the latest draft of a sequence.
func loadDraft(ctx context.Context, s store.Store, sequenceID int) *state.Sequences {
	drafts, err := s.GetDraft(ctx, store.GetDraftParams{SequenceID: sequenceID})
	if err != nil {
		exitErr("load draft", fmt.Errorf("%w (run `onboard draft pull %d` first)", err, sequenceID))
	}
	return decodeDraft(&drafts[0])
}

func decodeDraft(d *model.Draft) *state.Sequences {
	var st state.Sequences
	if err := json.Unmarshal(d.Payload, &st); err != nil {
		exitErr("decode draft", err)
	}
	return &st
}

// saveDraft stores the editor state as a new draft version.
func saveDraft(ctx context.Context, s store.Store, st *state.Sequences) *model.Draft {
	payload, err := json.Marshal(st)
	if err != nil {
		exitErr("encode draft", err)
	}
	d, err := s.PutDraft(ctx, store.PutDraftParams{
		SequenceID: st.SequenceID,
		Name:       st.Name,
		Payload:    payload,
	})
	if err != nil {
		exitErr("save draft", err)
	}
	return d
}

func printDraft(d *model.Draft, st *state.Sequences) {
	if isJSON() {
		printJSON(struct {
			Draft *model.Draft     `json:"draft"`
			State *state.Sequences `json:"state"`
		}{d, st})
		return
	}

	var flags []string
	if st.HasAutoAdd {
		flags = append(flags, "auto-add")
	}
	if st.HasPreboarding {
		flags = append(flags, "preboarding")
	}
	title := fmt.Sprintf("%s (v%d)", st.Name, d.Version)
	fmt.Println(header(title))
	meta := "saved " + humanize.Time(d.CreatedAt)
	if len(flags) > 0 {
		meta += " · " + strings.Join(flags, ", ")
	}
	fmt.Println(paint(styleDim, meta))
	fmt.Println(renderTimeline(st.Timeline))
}
