package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/rajat290/notekeeper/internal/client/models"
)

const listTimeLayout = "2006-01-02 15:04"

func (a *App) Add(ctx context.Context) error {
	title, err := a.prompt("Title")
	if err != nil {
		return err
	}
	content, err := GetMultiline(a.reader, "Content", a.out)
	if err != nil {
		return err
	}
	category, err := a.prompt("Category (empty for General)")
	if err != nil {
		return err
	}
	tags, err := a.prompt("Tags (comma separated)")
	if err != nil {
		return err
	}

	note, err := a.api.CreateNote(ctx, models.NoteInput{
		Title:    title,
		Content:  content,
		Category: category,
		Tags:     ParseTags(tags),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Note created: %s\n", note.ID)
	return nil
}

// List shows the first page of notes matching search ("" for all).
func (a *App) List(ctx context.Context, search string) error {
	a.search = search
	return a.Page(ctx, 1)
}

// Page shows page n of the last listing.
func (a *App) Page(ctx context.Context, n int) error {
	page, err := a.api.ListNotes(ctx, models.ListParams{Search: a.search, Page: n})
	if err != nil {
		return err
	}

	if len(page.Notes) == 0 {
		fmt.Fprintln(a.out, "No notes found")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tCATEGORY\tTAGS\tUPDATED")
	for _, note := range page.Notes {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", note.ID, truncate(note.Title, 40), note.Category,
			strings.Join(note.Tags, ","), note.UpdatedAt.Local().Format(listTimeLayout))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "Page %d of %d (%d notes)\n", page.Page, page.TotalPages, page.Total)
	return nil
}

func (a *App) Show(ctx context.Context, id string) error {
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "ID:       %s\n", n.ID)
	fmt.Fprintf(a.out, "Title:    %s\n", n.Title)
	fmt.Fprintf(a.out, "Category: %s\n", n.Category)
	fmt.Fprintf(a.out, "Tags:     %s\n", strings.Join(n.Tags, ", "))
	fmt.Fprintf(a.out, "Created:  %s\n", n.CreatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(a.out, "Updated:  %s\n", n.UpdatedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(a.out, "\n%s\n", n.Content)
	return nil
}

// Edit prompts for every field; an empty answer keeps the current value and
// "-" clears the tags.
func (a *App) Edit(ctx context.Context, id string) error {
	n, err := a.api.GetNote(ctx, id)
	if err != nil {
		return err
	}

	var patch models.NotePatch

	title, err := a.prompt(fmt.Sprintf("Title [%s]", n.Title))
	if err != nil {
		return err
	}
	if title != "" {
		patch.Title = &title
	}

	content, err := GetMultiline(a.reader, "Content (empty keeps the current text)", a.out)
	if err != nil {
		return err
	}
	if content != "" {
		patch.Content = &content
	}

	category, err := a.prompt(fmt.Sprintf("Category [%s]", n.Category))
	if err != nil {
		return err
	}
	if category != "" {
		patch.Category = &category
	}

	tags, err := a.prompt(fmt.Sprintf("Tags [%s] (\"-\" to clear)", strings.Join(n.Tags, ",")))
	if err != nil {
		return err
	}
	switch tags {
	case "":
	case "-":
		empty := []string{}
		patch.Tags = &empty
	default:
		parsed := ParseTags(tags)
		patch.Tags = &parsed
	}

	if patch.Empty() {
		fmt.Fprintln(a.out, "Nothing to update")
		return nil
	}

	if _, err := a.api.UpdateNote(ctx, id, patch); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Note updated")
	return nil
}

func (a *App) Delete(ctx context.Context, id string) error {
	answer, err := a.prompt(fmt.Sprintf("Delete note %s? (y/N)", id))
	if err != nil {
		return err
	}
	if !strings.EqualFold(answer, "y") && !strings.EqualFold(answer, "yes") {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}

	msg, err := a.api.DeleteNote(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, msg)
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
