package main

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/akeil/tkb"
)

func doTags(ctx context.Context, s settings) error {
	_, repo := setupStore(s)

	tags, err := repo.Tags(ctx)
	if err != nil {
		return err
	}

	if len(tags) == 0 {
		fmt.Println("No layer tags.")
		return nil
	}

	fmt.Println("Tags")
	fmt.Println("----")
	for _, t := range tags {
		fmt.Println(formatTag(t))
	}
	return nil
}

func doTagAdd(ctx context.Context, s settings, id, name string, readonly, training bool) error {
	_, repo := setupStore(s)

	tag := newTag(id, name, readonly, training)
	created, err := repo.CreateTag(ctx, tag)
	if err != nil {
		fmt.Printf("%v Failed to create tag %q: %v\n", crossmark, id, tkb.ErrorMessage(err))
		return err
	}

	fmt.Printf("%v tag %q created\n", checkmark, created.ID)
	return nil
}

func newTag(id, name string, readonly, training bool) tkb.LayerTag {
	if name == "" {
		name = id
	}
	t := tkb.LayerTag{
		ID:       id,
		Name:     name,
		Readonly: readonly,
		Data:     map[string]interface{}{},
	}
	if training {
		t.Data["training"] = true
	}
	return t
}

// formatTag shows a tag with its layer counts, classes in sorted order.
func formatTag(t tkb.LayerTag) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-12v | %v", t.ID, t.Name)

	flags := make([]string, 0, 2)
	if t.Training() {
		flags = append(flags, "training")
	}
	if t.Readonly {
		flags = append(flags, "readonly")
	}
	if len(flags) > 0 {
		fmt.Fprintf(&b, " (%v)", strings.Join(flags, ", "))
	}

	classes := make([]string, 0, len(t.Counts))
	for c := range t.Counts {
		classes = append(classes, c)
	}
	sort.Strings(classes)
	counts := make([]string, len(classes))
	for i, c := range classes {
		counts[i] = fmt.Sprintf("%v: %d", c, t.Counts[c])
	}
	fmt.Fprintf(&b, " | %d layers", t.Total())
	if len(counts) > 0 {
		fmt.Fprintf(&b, " [%v]", strings.Join(counts, ", "))
	}
	return b.String()
}
