package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/content"
)

func init() {
	todo := &cobra.Command{
		Use:   "todo",
		Short: "Manage to-do items",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List to-do items",
		Args:  cobra.NoArgs,
		Run:   runToDoList,
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a to-do item with its content",
		Args:  cobra.ExactArgs(1),
		Run:   runToDoShow,
	}

	dup := &cobra.Command{
		Use:   "duplicate <id>",
		Short: "Duplicate a to-do item",
		Args:  cobra.ExactArgs(1),
		Run:   runToDoDuplicate,
	}

	rm := &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a to-do item",
		Args:  cobra.ExactArgs(1),
		Run:   runToDoRm,
	}

	todo.AddCommand(list, show, dup, rm)
	RootCmd.AddCommand(todo)
}

func runToDoList(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	todos, err := c.ToDos().List(ctx)
	if err != nil {
		exitAPI("list to-dos", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(todos)
		return
	}
	for _, t := range todos {
		fmt.Printf("%s %s %s\n", paint(styleDim, fmt.Sprintf("#%d", t.ID)), t.Name,
			paint(styleBlue, fmt.Sprintf("day %d", t.DueOnDay)))
	}
}

func runToDoShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	t, err := c.ToDos().Get(ctx, id)
	if err != nil {
		exitAPI("get to-do", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(t)
		return
	}
	fmt.Println(header(t.Name))
	fmt.Println(paint(styleDim, fmt.Sprintf("due on day %d", t.DueOnDay)))
	md, err := content.MarkdownFromJSON(t.Content)
	if err != nil {
		exitErr("render content", err)
	}
	if md != "" {
		fmt.Println(renderMarkdown(md))
	}
}

func runToDoDuplicate(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	dup, err := c.ToDos().Duplicate(ctx, id)
	if err != nil {
		exitAPI("duplicate to-do", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d,"name":%q}`+"\n", dup.ID, dup.Name)
}

func runToDoRm(cmd *cobra.Command, args []string) {
	id := parseID(args[0])

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	if err := c.ToDos().Remove(ctx, id); err != nil {
		exitAPI("delete to-do", err)
	}
	saveSession(ctx, s, c)

	fmt.Printf(`{"ok":true,"id":%d}`+"\n", id)
}
