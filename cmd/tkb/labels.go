package main

import (
	"context"
	"fmt"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/pkg/annotate"
)

func doLabels(ctx context.Context, s settings, id string) error {
	_, repo := setupStore(s)

	c, m, err := findSchema(ctx, repo, id)
	if err != nil {
		return err
	}

	var schema tkb.Schema
	if c != nil {
		schema = c.Schema
		fmt.Printf("Class %q\n", c.ID)
	} else {
		schema = m.Schema
		fmt.Printf("Model %q\n", m.ID)
	}
	fmt.Println("--------------------")

	picker := annotate.NewLabelPicker(schema)
	sc := picker.Shortcuts()
	for _, label := range picker.Labels() {
		prefix, key, suffix := picker.Button(label)
		k, ok := sc.Key(label)
		if !ok {
			fmt.Printf("    %v\n", prefix)
			continue
		}
		if key == "" {
			// display name differs from the label
			fmt.Printf("[%c] %v\n", k, prefix)
			continue
		}
		fmt.Printf("[%c] %v[%v]%v\n", k, prefix, key, suffix)
	}

	if missing := sc.Missing(); len(missing) > 0 {
		fmt.Printf("%v no shortcut for %v\n", crossmark, missing)
	}

	return nil
}
