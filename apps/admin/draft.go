package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"text/tabwriter"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
)

func (cli *commandLine) list(search string) error {
	filter := &course.QueryFilter{Search: search}
	filter.Clean()
	drafts, err := cli.svc.Query(context.Background(), filter, []core.DBOrdering{{Field: "updated_at"}})
	if err != nil {
		return errors.Wrap(err, "querying drafts")
	}

	w := tabwriter.NewWriter(cli.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCHAPTERS\tUPDATED AT")
	for _, d := range drafts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", d.ID, d.Title, d.Snapshot.ChapterCount(), d.UpdatedAt.Format(time.RFC3339))
	}
	return w.Flush()
}

// export writes the stored snapshot of a draft as JSON, indented for humans.
func (cli *commandLine) export(id string, indent bool) error {
	draft, err := cli.svc.Get(context.Background(), id)
	if err != nil {
		return errors.Wrap(err, "getting draft")
	}

	var data []byte
	if indent {
		data, err = json.MarshalIndent(draft.Snapshot, "", "  ")
	} else {
		data, err = json.Marshal(draft.Snapshot)
	}
	if err != nil {
		return errors.Wrap(err, "encoding snapshot")
	}
	_, err = fmt.Fprintln(cli.out, string(data))
	return err
}

// importSnapshot creates a draft from a snapshot file and prints its ID.
func (cli *commandLine) importSnapshot(path, title string) error {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return errors.Wrap(err, "reading snapshot file")
	}
	var snap course.Snapshot
	if err = json.Unmarshal(data, &snap); err != nil {
		return errors.Wrap(err, "decoding snapshot")
	}

	nd := course.NewDraft{Title: title, Snapshot: &snap}
	if core.CleanString(nd.Title) == "" {
		nd.Title = snap.General.Title
	}
	if err = nd.Validate(cli.validate); err != nil {
		return err
	}

	draft, err := cli.svc.Create(context.Background(), nd)
	if err != nil {
		return errors.Wrap(err, "creating draft")
	}
	_, err = fmt.Fprintln(cli.out, draft.ID)
	return err
}
