package main

import (
	"context"
	"fmt"

	"github.com/akeil/tkb"
)

func doLayers(ctx context.Context, s settings, paperID, class, match string, training bool, format string) error {
	_, repo := setupStore(s)

	paper, err := repo.Paper(ctx, paperID)
	if err != nil {
		return err
	}
	layers, err := repo.Layers(ctx, paperID)
	if err != nil {
		return err
	}

	root := tkb.BuildTree(paperID, paper.SortedClasses(), layers)
	filters := make([]tkb.NodeFilter, 0)
	if class != "" {
		filters = append(filters, tkb.OfClass(class))
	}
	if match != "" {
		filters = append(filters, tkb.MatchName(match))
	}
	if training {
		filters = append(filters, tkb.IsTraining)
	}

	root = root.Filtered(filters...)
	if len(root.Layers()) == 0 {
		fmt.Println("Found no matching layers.")
		return nil
	}

	root.Sort(tkb.DefaultSort)

	title := paper.Title
	if title == "" {
		title = paper.ID
	}
	fmt.Println(title)
	fmt.Println("--------------------")

	switch format {
	case "tree":
		showTree(root, 0)
	case "list":
		showList(root)
	default:
		return fmt.Errorf("unsupported format, choose one of 'tree', 'list'")
	}

	return nil
}

func showList(n *tkb.Node) {
	dateFormat := "Jan 02 2006"

	show := func(n *tkb.Node) error {
		l, ok := n.Layer()
		if !ok {
			return nil
		}

		if n.Training() {
			fmt.Print("*")
		} else {
			fmt.Print(" ")
		}

		fmt.Print(" ")
		if l.Created.IsZero() {
			fmt.Printf("%-11v", "unknown")
		} else {
			fmt.Print(l.Created.Format(dateFormat))
		}
		fmt.Printf(" | %-14v | %-10v | %v (%v)", l.Status, l.Class, n.Name(), l.ID)
		fmt.Println()

		return nil
	}
	n.Walk(show)
}

func showTree(n *tkb.Node, level int) {
	if level > 0 {
		for i := 1; i < level; i++ {
			fmt.Print("  ")
		}

		if n.Leaf() {
			fmt.Print("- ")
		} else {
			fmt.Print("+ ")
		}

		fmt.Print(n.Name())
		if l, ok := n.Layer(); ok {
			fmt.Printf(" (%v, %v)", l.ID, l.Status)
		}
		if n.Training() {
			fmt.Print(" *")
		}

		fmt.Println()
	}

	if !n.Leaf() {
		for _, c := range n.Children {
			showTree(c, level+1)
		}
	}
}
