package issue

import (
	"strings"

	"github.com/yahsan2/gh-csv-issues/pkg/config"
	"github.com/yahsan2/gh-csv-issues/pkg/record"
)

// BuildDraft maps one CSV record to gh issue create arguments.
//
// Rules are applied in mapping order. A single-column rule whose cell is
// empty or absent emits nothing, title included, so a record without a
// title still produces a draft and gh decides what to do with it.
// A concatenated rule always emits --body, whatever field it is declared
// under.
func BuildDraft(repo string, fields config.FieldMapping, labelSeparator string, rec *record.Record) *Draft {
	d := &Draft{Repository: repo}

	for _, rule := range fields {
		if rule.Concat {
			if body := joinColumns(rec, rule.Columns); body != "" {
				d.add(FlagBody, body)
			}
			continue
		}

		value := rec.Get(rule.Column())
		if value == "" {
			continue
		}

		switch rule.Field {
		case config.FieldTitle:
			d.add(FlagTitle, value)
			if d.Title == "" {
				d.Title = value
			}
		case config.FieldBody:
			d.add(FlagBody, value)
		case config.FieldLabels:
			for _, label := range splitLabels(value, labelSeparator) {
				d.add(FlagLabel, label)
			}
		case config.FieldAssignees:
			for _, assignee := range strings.Split(value, AssigneeSeparator) {
				d.add(FlagAssignee, strings.TrimSpace(assignee))
			}
		case config.FieldMilestone:
			d.add(FlagMilestone, value)
		}
	}

	return d
}

// splitLabels splits a labels cell on sep. Without a separator, or when
// the cell does not contain it, the raw cell is a single label.
func splitLabels(value, sep string) []string {
	if sep == "" || !strings.Contains(value, sep) {
		return []string{value}
	}

	var labels []string
	for _, piece := range strings.Split(value, sep) {
		if label := strings.TrimSpace(piece); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}

func joinColumns(rec *record.Record, columns []string) string {
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		if v := rec.Get(c); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, "\n")
}
