package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/akeil/tkb"
)

func doPapers(ctx context.Context, s settings, search string, limit, offset int, order string) error {
	_, repo := setupStore(s)

	query := tkb.Params{}
	if search != "" {
		query["search"] = search
	}
	if limit > 0 {
		query["limit"] = strconv.Itoa(limit)
	}
	if offset > 0 {
		query["offset"] = strconv.Itoa(offset)
	}
	if order != "" {
		query["order"] = order
	}

	papers, err := repo.Papers(ctx, query)
	if err != nil {
		return err
	}

	if len(papers) == 0 {
		fmt.Println("Found no matching papers.")
		return nil
	}

	fmt.Println("Papers")
	fmt.Println("------")
	for _, p := range papers {
		showPaper(p)
	}

	return nil
}

func showPaper(p tkb.Paper) {
	title := p.Title
	if title == "" {
		title = "(no title)"
	}
	fmt.Printf("%-16v | %v\n", p.ID, title)

	classes := p.SortedClasses()
	if len(classes) == 0 {
		return
	}
	status := make([]string, len(classes))
	for i, c := range classes {
		st := p.ClassStatus[c]
		mark := ""
		if st.Training {
			mark = " " + checkmark
		}
		status[i] = fmt.Sprintf("%v: %d%v", c, st.Count, mark)
	}
	fmt.Printf("%16v | %v\n", "", strings.Join(status, ", "))
}
