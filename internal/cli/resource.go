package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/onboard/internal/chapters"
	"github.com/rcliao/onboard/internal/content"
	"github.com/rcliao/onboard/internal/model"
)

func init() {
	res := &cobra.Command{
		Use:   "resource",
		Short: "Browse resources and their chapters",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List resources",
		Args:  cobra.NoArgs,
		Run:   runResourceList,
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a resource",
		Args:  cobra.ExactArgs(1),
		Run:   runResourceShow,
	}
	show.Flags().Bool("tree", false, "Print the chapter outline")
	show.Flags().Bool("flat", false, "With --format json, include the chapters as received")

	read := &cobra.Command{
		Use:   "read <id>",
		Short: "Render a chapter as markdown",
		Args:  cobra.ExactArgs(1),
		Run:   runResourceRead,
	}
	read.Flags().Int("chapter", 0, "Chapter id (required)")
	read.Flags().Int("page", 0, "Only print this page of a long chapter (1-based)")
	read.Flags().Bool("raw", false, "Print markdown without terminal styling")
	read.MarkFlagRequired("chapter")

	res.AddCommand(list, show, read)
	RootCmd.AddCommand(res)
}

func runResourceList(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	resources, err := c.Resources().List(ctx)
	if err != nil {
		exitAPI("list resources", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		printJSON(resources)
		return
	}
	for _, r := range resources {
		kind := ""
		if r.Course {
			kind = paint(styleGreen, " course")
		}
		fmt.Printf("%s %s%s\n", paint(styleDim, fmt.Sprintf("#%d", r.ID)), r.Name, kind)
	}
}

func runResourceShow(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	tree, _ := cmd.Flags().GetBool("tree")
	flat, _ := cmd.Flags().GetBool("flat")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	view, err := c.Resources().View(ctx, id)
	if err != nil {
		exitAPI("get resource", err)
	}
	saveSession(ctx, s, c)

	if isJSON() {
		if flat {
			printJSON(view)
			return
		}
		printJSON(view.Organized)
		return
	}

	printResource(&view.Organized, view.Original.Chapters, tree)
}

func printResource(r *model.Resource, flat []*model.Chapter, tree bool) {
	fmt.Println(header(r.Name))
	meta := fmt.Sprintf("%d chapters", len(flat))
	if r.Course {
		meta += fmt.Sprintf(" · course on day %d", r.OnDay)
	}
	fmt.Println(paint(styleDim, meta))
	if orphans := chapters.Orphans(flat); len(orphans) > 0 {
		fmt.Println(paint(styleRed, fmt.Sprintf("%d chapters point at a missing parent and are hidden", len(orphans))))
	}
	if tree {
		fmt.Println(renderChapterTree(r.Chapters))
	}
}

func runResourceRead(cmd *cobra.Command, args []string) {
	id := parseID(args[0])
	chapterID, _ := cmd.Flags().GetInt("chapter")
	page, _ := cmd.Flags().GetInt("page")
	raw, _ := cmd.Flags().GetBool("raw")

	ctx := cmd.Context()
	s, err := openStore()
	if err != nil {
		exitErr("open store", err)
	}
	defer s.Close()

	c := newClient(ctx, s)
	res, err := c.Resources().Get(ctx, id)
	if err != nil {
		exitAPI("get resource", err)
	}
	saveSession(ctx, s, c)

	printChapter(res.Chapters, chapterID, page, raw)
}

// printChapter renders one chapter of an outline, optionally a single page.
func printChapter(tree []*model.Chapter, chapterID, page int, raw bool) {
	ch := chapters.Find(tree, chapterID)
	if ch == nil {
		exitErr("read", fmt.Errorf("chapter %d not found", chapterID))
	}

	md, err := content.MarkdownFromJSON(ch.Content)
	if err != nil {
		exitErr("render chapter", err)
	}
	if ch.Type == model.ChapterFolder && md == "" {
		for _, sub := range ch.Chapters {
			md += fmt.Sprintf("- %s (#%d)\n", sub.Name, sub.ID)
		}
	}
	md = "# " + ch.Name + "\n\n" + md

	pages := content.Chunk(md, content.DefaultPageOptions())
	if page > 0 {
		if page > len(pages) {
			exitErr("read", fmt.Errorf("page %d out of range (chapter has %d)", page, len(pages)))
		}
		pages = pages[page-1 : page]
	}

	if isJSON() {
		printJSON(pages)
		return
	}
	for i, p := range pages {
		if i > 0 {
			fmt.Println(paint(styleDim, "───"))
		}
		if raw {
			fmt.Println(p.Text)
			continue
		}
		fmt.Println(renderMarkdown(p.Text))
	}
}
