package main

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/StephaneRenouard/virtual-dataframe/toolkit"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/pflag"
	"sigs.k8s.io/yaml"
)

// outputFormat selects how status is printed. It implements pflag.Value.
type outputFormat string

const (
	outputTable outputFormat = "table"
	outputYAML  outputFormat = "yaml"
	outputJSON  outputFormat = "json"
)

var outputFormats = []outputFormat{outputTable, outputYAML, outputJSON}

var _ pflag.Value = (*outputFormat)(nil)

func (o *outputFormat) String() string { return string(*o) }

func (o *outputFormat) Set(v string) error {
	f := outputFormat(strings.ToLower(v))
	if !slices.Contains(outputFormats, f) {
		return fmt.Errorf("must be one of %s", o.Type())
	}
	*o = f
	return nil
}

func (o *outputFormat) Type() string {
	names := make([]string, len(outputFormats))
	for i, f := range outputFormats {
		names[i] = string(f)
	}
	return strings.Join(names, "|")
}

// statusView is the serialized form of a status report.
type statusView struct {
	Name      string `json:"name"`
	Namespace string `json:"namespace"`
	Installed bool   `json:"installed"`
	Running   bool   `json:"running"`
	Replicas  int32  `json:"replicas"`
	Pod       string `json:"pod,omitempty"`
	Phase     string `json:"phase,omitempty"`
}

func writeStatus(w io.Writer, format outputFormat, cfg toolkit.DeploymentConfig, st toolkit.Status) error {
	v := statusView{
		Name:      cfg.Name,
		Namespace: cfg.Namespace,
		Installed: st.Installed,
		Running:   st.Running,
		Replicas:  st.Replicas,
		Pod:       st.Pod,
		Phase:     string(st.Phase),
	}

	switch format {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode status: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Name", "Namespace", "Installed", "Running", "Replicas", "Pod", "Phase"})
		t.AppendRow(table.Row{v.Name, v.Namespace, yesNo(v.Installed), yesNo(v.Running), v.Replicas, dash(v.Pod), dash(v.Phase)})
		t.Render()
		return nil
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
