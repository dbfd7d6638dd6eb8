package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/fs"
	"github.com/akeil/tkb/pkg/api"
	"github.com/akeil/tkb/pkg/render"
	"github.com/akeil/tkb/pkg/store"
)

func doExport(ctx context.Context, s settings, paperIDs, layerIDs []string, outDir string, footer bool) error {
	client, repo := setupStore(s)

	err := os.MkdirAll(outDir, 0755)
	if err != nil {
		return err
	}

	// one context, so that a label has the same color in every paper
	rc := render.DefaultContext()

	group, ctx := errgroup.WithContext(ctx)
	for _, id := range paperIDs {
		paperID := id // scope
		group.Go(func() error {
			return exportPaper(ctx, rc, client, repo, paperID, layerIDs, outDir, footer)
		})
	}
	return group.Wait()
}

func exportPaper(ctx context.Context, rc *render.Context, client *api.Client, repo *store.Store, paperID string, layerIDs []string, outDir string, footer bool) error {
	fmt.Printf("%v download %q\n", ellipsis, paperID)
	paper, err := repo.Paper(ctx, paperID)
	if err != nil {
		fmt.Printf("%v Failed to download %q: %v\n", crossmark, paperID, tkb.ErrorMessage(err))
		return err
	}

	layers, err := selectLayers(ctx, repo, paper, layerIDs)
	if err != nil {
		fmt.Printf("%v Failed to read layers for %q: %v\n", crossmark, paperID, tkb.ErrorMessage(err))
		return err
	}

	overlays := make([]render.Overlay, 0, len(layers))
	for _, l := range layers {
		boxes, err := repo.Annotations(ctx, paperID, l.ID, nil)
		if err != nil {
			fmt.Printf("%v Failed to read boxes for layer %q: %v\n", crossmark, l.ID, tkb.ErrorMessage(err))
			return err
		}
		overlays = append(overlays, render.Overlay{Layer: l, Boxes: boxes})
	}

	var buf bytes.Buffer
	err = client.FetchPDF(ctx, paperID, &buf)
	if err != nil {
		fmt.Printf("%v Failed to download PDF for %q: %v\n", crossmark, paperID, tkb.ErrorMessage(err))
		return err
	}

	title := paper.Title
	if title == "" {
		title = paper.ID
	}

	// outDir only ever sees complete files
	tmp := fs.TempPath("", ".pdf")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	fmt.Printf("%v render %q with %d layers\n", ellipsis, paperID, len(overlays))
	opts := render.PDFOptions{Title: title, Footer: footer}
	err = rc.PDF(ctx, bytes.NewReader(buf.Bytes()), overlays, opts, f)
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		fmt.Printf("%v Failed to render %q: %v\n", crossmark, paperID, err)
		return err
	}

	path := filepath.Join(outDir, strings.ReplaceAll(paperID, "/", "_")+".pdf")
	err = fs.Move(tmp, path)
	if err != nil {
		return err
	}

	fmt.Printf("%v paper %q saved as %q.\n", checkmark, paperID, path)
	return nil
}

// selectLayers returns the layers with the given ids,
// or the best layer for each class of the paper if no ids are given.
func selectLayers(ctx context.Context, repo tkb.Repository, paper tkb.Paper, ids []string) ([]tkb.Layer, error) {
	if len(ids) > 0 {
		layers := make([]tkb.Layer, 0, len(ids))
		for _, id := range ids {
			l, err := repo.Layer(ctx, paper.ID, id)
			if err != nil {
				return nil, err
			}
			layers = append(layers, l)
		}
		return layers, nil
	}

	all, err := repo.Layers(ctx, paper.ID)
	if err != nil {
		return nil, err
	}

	classes := paper.SortedClasses()
	if len(classes) == 0 {
		root := tkb.BuildTree(paper.ID, nil, all)
		for _, c := range root.Children {
			classes = append(classes, c.ID)
		}
	}

	layers := make([]tkb.Layer, 0, len(classes))
	for _, c := range classes {
		if l, ok := tkb.BestLayer(all, c); ok {
			layers = append(layers, l)
		}
	}
	return layers, nil
}
