package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/model"
	"github.com/rcliao/onboard/internal/state"
)

func init() {
	addStep := &cobra.Command{
		Use:   "add-step <seq-id>",
		Short: "Add a timeline step",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftAddStep,
	}
	addStep.Flags().String("type", "after", "Trigger: after, before, todo or without")
	addStep.Flags().Int("days", 0, "Days relative to the start date")
	addStep.Flags().String("time", "", "Time of day, e.g. 08:00")

	rmStep := &cobra.Command{
		Use:   "rm-step <seq-id>",
		Short: "Remove the timeline step at an index",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftRmStep,
	}
	rmStep.Flags().IntP("index", "i", -1, "Timeline index (required)")
	rmStep.MarkFlagRequired("index")

	setDay := &cobra.Command{
		Use:   "set-day <seq-id>",
		Short: "Change the day of a timeline step and reorder",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftSetDay,
	}
	setDay.Flags().IntP("index", "i", -1, "Timeline index (required)")
	setDay.Flags().String("day", "", "New day; anything not starting with a number clears it")
	setDay.MarkFlagRequired("index")
	setDay.MarkFlagRequired("day")

	setConds := &cobra.Command{
		Use:   "set-conditions <seq-id>",
		Short: "Set the to-do items that trigger a step",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftSetConditions,
	}
	setConds.Flags().IntP("index", "i", -1, "Timeline index (required)")
	setConds.Flags().String("todo", "", "Comma-separated to-do ids")
	setConds.MarkFlagRequired("index")

	addItem := &cobra.Command{
		Use:   "add-item <seq-id>",
		Short: "Add an item to a step's bucket",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftAddItem,
	}
	rmItem := &cobra.Command{
		Use:   "rm-item <seq-id>",
		Short: "Remove an item from a step's bucket",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftRmItem,
	}
	for _, c := range []*cobra.Command{addItem, rmItem} {
		c.Flags().IntP("block", "b", -1, "Timeline index (required)")
		c.Flags().String("bucket", "", "Bucket: to_do, resources, badges, admin_tasks, external_messages, introductions, preboarding, appointments")
		c.Flags().Int("id", 0, "Item id (required)")
		c.MarkFlagRequired("block")
		c.MarkFlagRequired("bucket")
		c.MarkFlagRequired("id")
	}
	addItem.Flags().String("name", "", "Item name shown in the timeline")

	toggle := &cobra.Command{
		Use:   "toggle <seq-id>",
		Short: "Flip the preboarding or auto-add switch",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftToggle,
	}
	toggle.Flags().Bool("preboarding", false, "Toggle preboarding")
	toggle.Flags().Bool("auto-add", false, "Toggle adding the sequence to new hires automatically")

	push := &cobra.Command{
		Use:   "push <seq-id>",
		Short: "Save the latest draft to the platform",
		Args:  cobra.ExactArgs(1),
		Run:   runDraftPush,
	}

	draftCmd.AddCommand(addStep, rmStep, setDay, setConds, addItem, rmItem, toggle, push)
}

// editDraft loads the latest draft, applies fn and saves the result as a new
// version.
func editDraft(cmd *cobra.Command, seqArg string, fn func(st *state.Sequences) error) {
	id := parseID(seqArg)
	ctx := cmd.Context()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st := loadDraft(ctx, s, id)
	if err := fn(st); err != nil {
		exitErr(cmd.Name(), err)
	}
	d := saveDraft(ctx, s, st)
	printDraft(d, st)
}

func runDraftAddStep(cmd *cobra.Command, args []string) {
	typ, _ := cmd.Flags().GetString("type")
	at, _ := cmd.Flags().GetString("time")

	ct, err := model.ParseConditionType(typ)
	if err != nil {
		exitErr("add-step", err)
	}
	cond := model.Condition{ConditionType: ct, Time: at}
	if cmd.Flags().Changed("days") {
		days, _ := cmd.Flags().GetInt("days")
		cond.Days = &days
	}

	editDraft(cmd, args[0], func(st *state.Sequences) error {
		st.AddTimelineItem(cond)
		return nil
	})
}

func runDraftRmStep(cmd *cobra.Command, args []string) {
	index, _ := cmd.Flags().GetInt("index")
	editDraft(cmd, args[0], func(st *state.Sequences) error {
		return st.RemoveTimelineItem(index)
	})
}

func runDraftSetDay(cmd *cobra.Command, args []string) {
	index, _ := cmd.Flags().GetInt("index")
	day, _ := cmd.Flags().GetString("day")
	editDraft(cmd, args[0], func(st *state.Sequences) error {
		return st.ChangeConditionDay(index, day)
	})
}

func runDraftSetConditions(cmd *cobra.Command, args []string) {
	index, _ := cmd.Flags().GetInt("index")
	todo, _ := cmd.Flags().GetString("todo")

	var items []model.Item
	for _, id := range parseIDs(todo) {
		items = append(items, model.Item{ID: id})
	}
	editDraft(cmd, args[0], func(st *state.Sequences) error {
		return st.ChangeCondition(index, items)
	})
}

func runDraftAddItem(cmd *cobra.Command, args []string) {
	block, _ := cmd.Flags().GetInt("block")
	bucket, _ := cmd.Flags().GetString("bucket")
	id, _ := cmd.Flags().GetInt("id")
	name, _ := cmd.Flags().GetString("name")

	editDraft(cmd, args[0], func(st *state.Sequences) error {
		return st.AddItem(block, bucket, model.Item{ID: id, Name: name})
	})
}

func runDraftRmItem(cmd *cobra.Command, args []string) {
	block, _ := cmd.Flags().GetInt("block")
	bucket, _ := cmd.Flags().GetString("bucket")
	id, _ := cmd.Flags().GetInt("id")

	editDraft(cmd, args[0], func(st *state.Sequences) error {
		return st.RemoveItem(block, bucket, id)
	})
}

func runDraftToggle(cmd *cobra.Command, args []string) {
	pre, _ := cmd.Flags().GetBool("preboarding")
	auto, _ := cmd.Flags().GetBool("auto-add")
	if !pre && !auto {
		exitErr("toggle", fmt.Errorf("pass --preboarding and/or --auto-add"))
	}

	editDraft(cmd, args[0], func(st *state.Sequences) error {
		if pre {
			st.TogglePreboarding()
		}
		if auto {
			st.ToggleAutoAdd()
		}
		return nil
	})
}

func runDraftPush(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	ctx := cmd.Context()

	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	st := loadDraft(ctx, s, id)
	c := newClient(ctx, s)
	seq, err := c.Sequences().Update(ctx, id, st.Sequence())
	if err != nil {
		exitAPI("push draft", err)
	}
	saveSession(ctx, s, c)

	// Keep the platform's answer as the newest version.
	st.SetSequence(*seq)
	d := saveDraft(ctx, s, st)
	fmt.Printf(`{"ok":true,"sequence_id":%d,"version":%d}`+"\n", id, d.Version)
}
