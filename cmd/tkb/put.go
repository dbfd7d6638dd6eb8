package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"golang.org/x/sync/errgroup"

	"github.com/akeil/tkb"
	tkbapi "github.com/akeil/tkb/pkg/api"
)

const pdfExt = ".pdf"

func doPut(ctx context.Context, s settings, paths []string, id string) error {
	src := expandSources(paths)

	if len(src) == 0 {
		return fmt.Errorf("no source file(s) specified")
	}
	if id != "" && len(src) > 1 {
		return fmt.Errorf("cannot use one paper id for multiple documents")
	}

	err := checkSrcFormat(src)
	if err != nil {
		return err
	}

	client := setupClient(s)

	group, ctx := errgroup.WithContext(ctx)
	for _, p := range src {
		srcPath := p // scope
		group.Go(func() error {
			return uploadPDF(ctx, client, srcPath, id)
		})
	}

	return group.Wait()
}

// upload a single pdf
func uploadPDF(ctx context.Context, client *tkbapi.Client, src, id string) error {
	if id == "" {
		id = paperID(src)
	}

	err := api.ValidateFile(src, nil)
	if err != nil {
		fmt.Printf("%v %q is not a valid PDF: %v\n", crossmark, src, err)
		return err
	}
	pages, err := api.PageCountFile(src)
	if err != nil {
		return err
	}

	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()

	fmt.Printf("%v upload %q as %q (%d pages)\n", ellipsis, src, id, pages)
	_, file := filepath.Split(src)
	_, err = client.UploadPaper(ctx, id, file, f)
	if err != nil {
		fmt.Printf("%v Failed to upload %q: %v\n", crossmark, src, tkb.ErrorMessage(err))
		return err
	}

	fmt.Printf("%v %q uploaded\n", checkmark, id)
	return nil
}

// paperID derives the id for a paper from its file name.
func paperID(path string) string {
	_, file := filepath.Split(path)
	ext := filepath.Ext(file)
	return strings.TrimSuffix(file, ext)
}

// expandSources expands glob patterns.
// Glob() also filters any non-existing files.
func expandSources(paths []string) []string {
	src := make([]string, 0)
	for _, s := range paths {
		matches, err := filepath.Glob(s)
		if err != nil {
			fmt.Printf("%v %v\n", crossmark, err)
			continue
		}
		src = append(src, matches...)
	}
	return src
}

// Check if all of the given src paths are supported file types.
func checkSrcFormat(src []string) error {
	for _, s := range src {
		_, file := filepath.Split(s)
		ext := filepath.Ext(file)
		if strings.ToLower(ext) != pdfExt {
			return fmt.Errorf("unsupported file type %q", ext)
		}
	}
	return nil
}
