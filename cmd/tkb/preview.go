package main

import (
	"bufio"
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/fs"
	"github.com/akeil/tkb/pkg/render"
)

type previewOptions struct {
	page        int
	width       int
	background  string
	transparent bool
	out         string
}

func doPreview(ctx context.Context, s settings, paperID string, layerIDs []string, o previewOptions) error {
	_, repo := setupStore(s)

	paper, err := repo.Paper(ctx, paperID)
	if err != nil {
		return err
	}

	layers, err := selectLayers(ctx, repo, paper, layerIDs)
	if err != nil {
		return err
	}

	overlays := make([]render.Overlay, 0, len(layers))
	for _, l := range layers {
		boxes, err := repo.Annotations(ctx, paperID, l.ID, nil)
		if err != nil {
			return err
		}
		overlays = append(overlays, render.Overlay{Layer: l, Boxes: boxes})
	}

	opts := render.PageOptions{Width: o.width, Transparent: o.transparent}
	if o.background != "" {
		opts.Background, err = readImage(o.background)
		if err != nil {
			return err
		}
	}

	out := o.out
	if out == "" {
		out = previewName(paperID, o.page)
	}

	tmp := fs.TempPath("", ".png")
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer os.Remove(tmp)

	w := bufio.NewWriter(f)
	err = render.DefaultContext().PagePNG(overlays, o.page, render.A4, opts, w)
	if err == nil {
		err = w.Flush()
	}
	closeErr := f.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	err = fs.Move(tmp, out)
	if err != nil {
		return err
	}

	fmt.Printf("%v page %d of %q saved as %q.\n", checkmark, o.page, paperID, out)
	return nil
}

func previewName(paperID string, page int) string {
	return fmt.Sprintf("%v-p%d.png", strings.ReplaceAll(paperID, "/", "_"), page)
}

func readImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, tkb.NewValidationError("cannot read background image %q: %v", path, err)
	}
	return img, nil
}
