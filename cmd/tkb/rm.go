package main

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/logging"
)

// doRm deletes the given layers of a paper, or the paper itself if no layers
// are given. Deleting a paper requires force.
func doRm(ctx context.Context, s settings, paperID string, layerIDs []string, force bool) error {
	client, repo := setupStore(s)

	if len(layerIDs) == 0 {
		if !force {
			return fmt.Errorf("refusing to delete paper %q without --force", paperID)
		}
		err := repo.DeletePaper(ctx, paperID)
		if err != nil {
			fmt.Printf("%v Failed to delete paper %q: %v\n", crossmark, paperID, tkb.ErrorMessage(err))
			return err
		}
		err = client.ForgetPDF(paperID)
		if err != nil {
			logging.Warning("Failed to drop cached PDF for %q: %v", paperID, err)
		}
		fmt.Printf("%v paper %q deleted\n", checkmark, paperID)
		return nil
	}

	group, ctx := errgroup.WithContext(ctx)
	for _, id := range layerIDs {
		layerID := id // scope
		group.Go(func() error {
			err := repo.DeleteLayer(ctx, paperID, layerID)
			if err != nil {
				fmt.Printf("%v Failed to delete layer %q: %v\n", crossmark, layerID, tkb.ErrorMessage(err))
				return err
			}
			fmt.Printf("%v layer %q deleted\n", checkmark, layerID)
			return nil
		})
	}
	return group.Wait()
}
