package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ezoic/treeforge/pkg/log"
	"github.com/ezoic/treeforge/sklearn/tree/data"
	"github.com/ezoic/treeforge/sklearn/tree/split"
)

type splitCmdConfig struct {
	*rootCmdConfig
	inputFlags
	plotOutput string
}

func splitCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &splitCmdConfig{rootCmdConfig: rootConfig}
	v := rootConfig.v
	cmd := &cobra.Command{
		Use:   "split",
		Short: "Rank the best split of every column at the root",
		Long: `Search every column for its best split over all rows and print the
candidates ordered by gain. With --plot, the score of every numeric boundary
examined is drawn as one line per column.`,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return config.run(cmd.OutOrStdout(), v)
		},
	}
	config.register(cmd)
	cmd.Flags().StringVar(&config.plotOutput, "plot", "", "path of an image to which numeric boundary scores are drawn")
	addTreeFlags(cmd)
	addDataFlags(cmd)
	return cmd
}

func (sc *splitCmdConfig) run(out io.Writer, v *viper.Viper) error {
	td, err := sc.treeData(sc.rootCmdConfig, v)
	if err != nil {
		return err
	}
	profile := newGainProfile()
	opts := []split.EngineOption{split.WithLogger(log.GetLoggerWithName("split"))}
	if sc.plotOutput != "" {
		opts = append(opts, split.WithObserver(profile))
	}
	engine, err := split.NewEngine(td.Config(), opts...)
	if err != nil {
		return err
	}
	root, err := data.NewMembership(td, td.UniformWeights())
	if err != nil {
		return err
	}
	priors, err := data.ComputePriors(td.Target(), root.Weights(), td.Config())
	if err != nil {
		return err
	}
	ranked, err := engine.Ranked(sc.ctx, td, root, priors)
	if err != nil {
		return err
	}
	renderRanking(out, td, priors, ranked)

	if sc.plotOutput != "" {
		sc.Logf("Drawing %d boundaries to %s", profile.Len(), sc.plotOutput)
		return profile.Save(sc.plotOutput)
	}
	return nil
}

// renderRanking prints one row per column, best split first. Columns without
// an acceptable split come last in attribute order.
func renderRanking(out io.Writer, td *data.TreeData, priors data.Priors, ranked []split.Candidate) {
	order := make([]int, len(ranked))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return split.Better(ranked[order[a]], ranked[order[b]]) })

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetTitle(fmt.Sprintf("Root splits (%s)", priors))
	t.AppendHeader(table.Row{"#", "Column", "Kind", "Gain", "Children"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "#", Align: text.AlignRight},
		{Name: "Kind", Align: text.AlignCenter, AlignHeader: text.AlignCenter},
		{Name: "Gain", Align: text.AlignRight},
		{Name: "Children", WidthMax: 60},
	})
	for rank, i := range order {
		col := td.Column(i)
		c := ranked[i]
		if c == nil {
			t.AppendRow(table.Row{rank + 1, col.Name(), col.Kind(), "-", "no acceptable split"})
			continue
		}
		t.AppendRow(table.Row{rank + 1, col.Name(), col.Kind(), fmt.Sprintf("%.6f", c.Gain()), describeChildren(c)})
	}
	t.Render()
}

func describeChildren(c split.Candidate) string {
	conds := c.ChildConditions()
	s := ""
	for i, cond := range conds {
		if i > 0 {
			s += " | "
		}
		s += cond.String()
	}
	return s
}
