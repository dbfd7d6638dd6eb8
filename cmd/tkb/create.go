package main

import (
	"context"
	"fmt"

	"github.com/akeil/tkb/pkg/annotate"
)

func doCreate(ctx context.Context, s settings, paperID, class, name, from string) error {
	_, repo := setupStore(s)

	c, m, err := findSchema(ctx, repo, class)
	if err != nil {
		return err
	}

	alert := func(msg string) {
		fmt.Printf("%v Failed to create layer: %v\n", crossmark, msg)
	}

	var section *annotate.Section
	if c != nil {
		section = annotate.NewClassSection(repo, paperID, *c, alert)
	} else {
		section = annotate.NewModelSection(repo, paperID, *m, alert)
	}

	err = section.Load(ctx)
	if err != nil {
		return err
	}

	if from != "" && !hasExtractor(section, from) {
		return fmt.Errorf("no extractor %q for %v", from, class)
	}

	if from == "" {
		fmt.Printf("%v create layer for %v %q\n", ellipsis, section.Kind(), class)
	} else {
		fmt.Printf("%v create layer for %v %q from %q\n", ellipsis, section.Kind(), class, from)
	}
	l, err := section.CreateLayer(ctx, name, from)
	if err != nil {
		return err
	}

	fmt.Printf("%v created layer %q (%v) on paper %q\n", checkmark, l.Name, l.ID, paperID)
	return nil
}

func hasExtractor(s *annotate.Section, id string) bool {
	for _, e := range s.Extractors() {
		if e.ID == id {
			return true
		}
	}
	return false
}
