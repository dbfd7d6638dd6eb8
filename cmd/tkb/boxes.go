package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/akeil/tkb"
)

func doBoxes(ctx context.Context, s settings, paperID, layerID string, page int) error {
	_, repo := setupStore(s)

	query := tkb.Params{}
	if page > 0 {
		query["page"] = strconv.Itoa(page)
	}

	boxes, err := repo.Annotations(ctx, paperID, layerID, query)
	if err != nil {
		return err
	}

	if len(boxes) == 0 {
		fmt.Println("Found no bounding boxes.")
		return nil
	}

	for _, b := range boxes {
		if page > 0 && b.PageNum != page {
			continue
		}
		fmt.Printf("%-8v p.%-3d (%6.1f, %6.1f) - (%6.1f, %6.1f)  %v\n",
			b.ID, b.PageNum, b.MinH, b.MinV, b.MaxH, b.MaxV, b.Label)
	}

	return nil
}

func doLabel(ctx context.Context, s settings, paperID, layerID, boxID, label string) error {
	_, repo := setupStore(s)

	layer, err := repo.Layer(ctx, paperID, layerID)
	if err != nil {
		return err
	}

	c, m, err := findSchema(ctx, repo, layer.Class)
	if err != nil && !tkb.IsNotFound(err) {
		return err
	}
	var schema tkb.Schema
	if c != nil {
		schema = c.Schema
	} else if m != nil {
		schema = m.Schema
	}
	if len(schema.Labels) > 0 && !schema.Has(label) {
		return fmt.Errorf("label %q is not valid for %q, choose one of %v", label, layer.Class, schema.Labels)
	}

	boxes, err := repo.Annotations(ctx, paperID, layerID, nil)
	if err != nil {
		return err
	}
	var box *tkb.Annotation
	for i := range boxes {
		if boxes[i].ID == boxID {
			box = &boxes[i]
			break
		}
	}
	if box == nil {
		return tkb.NewNotFound("no bounding box %q in layer %q", boxID, layerID)
	}

	prev := box.Label
	box.Label = label
	_, err = repo.UpdateAnnotation(ctx, *box)
	if err != nil {
		fmt.Printf("%v Failed to change label of %q: %v\n", crossmark, boxID, tkb.ErrorMessage(err))
		return err
	}

	fmt.Printf("%v %q: %q -> %q\n", checkmark, boxID, prev, label)
	return nil
}
