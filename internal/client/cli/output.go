package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"ordering/internal/pkg/wire"
)

// printer renders orders and events as text or JSON lines.
type printer struct {
	format string
	w      io.Writer
}

func (p printer) orders(list []wire.Order) error {
	if p.format == "json" {
		if list == nil {
			list = []wire.Order{}
		}
		return p.json(list)
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(p.w, "no tracked orders")
		return err
	}

	tw := tabwriter.NewWriter(p.w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tTOTAL\tWAIT\tUPDATED")
	for _, o := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			o.ID, o.Type, o.Status, o.Total, waitText(o.WaitTimeMinutes), o.UpdatedAt.Format(time.DateTime))
	}
	return tw.Flush()
}

func (p printer) order(o wire.Order) error {
	if p.format == "json" {
		return p.json(o)
	}
	_, err := fmt.Fprintf(p.w, "order %s %s total %s\n", o.ID, o.Status, o.Total)
	return err
}

func (p printer) event(ev wire.Event) error {
	if p.format == "json" {
		return p.json(ev)
	}
	line := fmt.Sprintf("%s order %s is %s", ev.Type, ev.Order.ID, ev.Order.Status)
	if ev.Notice != "" {
		line += ": " + ev.Notice
	}
	_, err := fmt.Fprintln(p.w, line)
	return err
}

func (p printer) json(v any) error {
	return json.NewEncoder(p.w).Encode(v)
}

func waitText(minutes *int) string {
	if minutes == nil {
		return "-"
	}
	return fmt.Sprintf("%dm", *minutes)
}
