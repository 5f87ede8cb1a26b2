package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"usergraph/internal/models"
)

type printer struct {
	w    io.Writer
	json bool
}

func (p *printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p *printer) message(msg string) error {
	if p.json {
		return p.encode(models.MessageResponse{Message: msg})
	}
	_, err := fmt.Fprintln(p.w, msg)
	return err
}

func (p *printer) user(u *models.UserView) error {
	if p.json {
		return p.encode(u)
	}
	return p.users([]models.UserView{*u})
}

func (p *printer) users(users []models.UserView) error {
	if p.json {
		return p.encode(users)
	}
	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tUSERNAME\tAGE\tHOBBIES\tFRIENDS\tSCORE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%.1f\n",
			u.ID, u.Username, u.Age, strings.Join(u.Hobbies, ","), len(u.Friends), u.PopularityScore)
	}
	return tw.Flush()
}

func (p *printer) graph(users []models.UserView, edges []models.Edge) error {
	if p.json {
		return p.encode(models.Graph{Users: users, Edges: edges})
	}
	if err := p.users(users); err != nil {
		return err
	}
	names := make(map[string]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Username
	}
	fmt.Fprintf(p.w, "\n%d edges\n", len(edges))
	for _, e := range edges {
		fmt.Fprintf(p.w, "  %s -- %s\n", label(names, e.Source), label(names, e.Target))
	}
	return nil
}

func label(names map[string]string, id string) string {
	if n, ok := names[id]; ok {
		return n
	}
	return id
}
