package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/state"
)

func init() {
	emp := &cobra.Command{
		Use:     "employee",
		Aliases: []string{"emp"},
		Short:   "Manage employees",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List employees",
		Args:  cobra.NoArgs,
		Run:   runEmployeeList,
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show an employee and the resources assigned to them",
		Args:  cobra.ExactArgs(1),
		Run:   runEmployeeShow,
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete an employee",
		Args:  cobra.ExactArgs(1),
		Run:   runEmployeeRm,
	}

	addResource := &cobra.Command{
		Use:   "add-resource <id>",
		Short: "Assign a resource to an employee",
		Args:  cobra.ExactArgs(1),
		Run:   runEmployeeAddResource,
	}
	addResource.Flags().Int("resource", 0, "Resource id (required)")
	addResource.MarkFlagRequired("resource")

	addSequence := &cobra.Command{
		Use:   "add-sequence <id>",
		Short: "Assign the resources of a sequence to an employee",
		Args:  cobra.ExactArgs(1),
		Run:   runEmployeeAddSequence,
	}
	addSequence.Flags().Int("sequence", 0, "Sequence id (required)")
	addSequence.MarkFlagRequired("sequence")

	slack := &cobra.Command{
		Use:   "slack <id>",
		Short: "Give or revoke Slack bot access",
		Args:  cobra.ExactArgs(1),
		Run:   runEmployeeSlack,
	}
	slack.Flags().Bool("revoke", false, "Revoke access instead of granting it")

	email := &cobra.Command{
		Use:   "send-email <id>",
		Short: "Email the employee their portal credentials",
		Args:  cobra.ExactArgs(1),
		Run:   runEmployeeEmail,
	}

	emp.AddCommand(list, show, rm, addResource, addSequence, slack, email)
	RootCmd.AddCommand(emp)
}

func runEmployeeList(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	all, err := c.Employees().List(ctx)
	if err != nil {
		exitAPI("list employees", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(all)
		return
	}
	for _, e := range all {
		slack := paint(styleDim, "no slack")
		if e.SlackUserID != nil {
			slack = paint(styleGreen, "slack")
		}
		fmt.Printf("%s %s %s %s\n", paint(styleDim, fmt.Sprintf("#%d", e.ID)), e.FullName(), paint(styleDim, e.Email), slack)
	}
}

func runEmployeeShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	e, err := c.Employees().Get(ctx, id)
	if err != nil {
		exitAPI("get employee", err)
	}
	res, err := c.Employees().Resources(ctx, id)
	if err != nil {
		exitAPI("get employee resources", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(map[string]any{"employee": e, "resources": res})
		return
	}
	fmt.Println(header(e.FullName()))
	for _, line := range []string{e.Position, e.Email, e.Phone} {
		if line != "" {
			fmt.Println(paint(styleDim, line))
		}
	}
	for _, r := range res {
		fmt.Printf("  %s\n", itemLabel(r))
	}
}

func runEmployeeRm(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Employees().Remove(ctx, id); err != nil {
		exitAPI("delete employee", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d}`+"\n", id)
}

func runEmployeeAddResource(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	resourceID, _ := cmd.Flags().GetInt("resource")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Employees().AddResource(ctx, id, resourceID); err != nil {
		exitAPI("add resource", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d,"resource":%d}`+"\n", id, resourceID)
}

func runEmployeeAddSequence(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	sequenceID, _ := cmd.Flags().GetInt("sequence")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Employees().AddSequence(ctx, id, sequenceID); err != nil {
		exitAPI("add sequence", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d,"sequence":%d}`+"\n", id, sequenceID)
}

func runEmployeeSlack(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	revoke, _ := cmd.Flags().GetBool("revoke")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	all, err := c.Employees().List(ctx)
	if err != nil {
		exitAPI("list employees", err)
	}
	people := &state.Employees{}
	people.SetAll(all)

	people.ToggleSlackLoading(id)
	if revoke {
		err = c.Employees().RevokeSlackAccess(ctx, id)
	} else {
		err = c.Employees().GiveSlackAccess(ctx, id)
	}
	people.ToggleSlackLoading(id)
	if err != nil {
		exitAPI("slack access", err)
	}
	saveSession(ctx, s, c)

	if revoke {
		people.UnsetSlackID(id)
		app.ShowSnackbar("Slack access has been revoked.")
	} else {
		people.SetSlackID(id)
		app.ShowSnackbar("Slack access has been granted.")
	}
	writeNotices(cmd.OutOrStdout())

	if isJSON() {
		for _, e := range people.All {
			if e.ID == id {
				printJSON(e)
			}
		}
	}
}

func runEmployeeEmail(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.Employees().SendPortalEmail(ctx, id); err != nil {
		exitAPI("send email", err)
	}
	saveSession(ctx, s, c)

	app.ShowSnackbar("Portal credentials have been sent.")
	writeNotices(cmd.OutOrStdout())
}
