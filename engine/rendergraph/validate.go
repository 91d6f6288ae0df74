package rendergraph

import (
	"fmt"
	"slices"
	"strings"
)

type IssueKind uint8

const (
	// IssueOrder: the producer is declared after (or is) the consumer, so
	// the sink can never resolve within a frame.
	IssueOrder IssueKind = iota
	// IssueUnknownSource: nothing in the graph can ever provide the source.
	IssueUnknownSource
)

func (k IssueKind) String() string {
	switch k {
	case IssueOrder:
		return "order"
	case IssueUnknownSource:
		return "unknown_source"
	}
	return fmt.Sprintf("issue(%d)", uint8(k))
}

type LinkageIssue struct {
	Kind   IssueKind
	Pass   string
	Sink   string
	Source string
}

func (i LinkageIssue) String() string {
	switch i.Kind {
	case IssueOrder:
		return fmt.Sprintf("pass %q sink %q reads %q which is produced later in the frame", i.Pass, i.Sink, i.Source)
	default:
		return fmt.Sprintf("pass %q sink %q reads %q which nothing provides", i.Pass, i.Sink, i.Source)
	}
}

// Diagnose reports linkages that will keep their pass skipped forever. It
// never changes how the graph executes. globals are names registered outside
// the config; table supplies the outputs each pass type publishes and may be
// nil, in which case published outputs are assumed to exist.
func (c *Config) Diagnose(table FactoryTable, globals ...string) []LinkageIssue {
	known := slices.Clone(globals)
	for _, g := range c.globals {
		known = append(known, g.Name())
	}

	index := make(map[string]int, len(c.Passes))
	for i, p := range c.Passes {
		index[p.Name] = i
	}

	provides := func(producer PassSpec, local string) bool {
		for _, l := range producer.Linkages {
			if l.Sink == local {
				return true
			}
		}
		if table == nil {
			return true
		}
		d, ok := table[producer.Type]
		return ok && slices.Contains(d.Outputs, local)
	}

	var issues []LinkageIssue
	check := func(consumer int, passName, sink, sourceName string) {
		if slices.Contains(known, sourceName) {
			return
		}
		producerName, local, found := strings.Cut(sourceName, ".")
		p, ok := index[producerName]
		if !found || !ok || !provides(c.Passes[p], local) {
			issues = append(issues, LinkageIssue{Kind: IssueUnknownSource, Pass: passName, Sink: sink, Source: sourceName})
			return
		}
		if p >= consumer {
			issues = append(issues, LinkageIssue{Kind: IssueOrder, Pass: passName, Sink: sink, Source: sourceName})
		}
	}

	for i, p := range c.Passes {
		for _, l := range p.Linkages {
			check(i, p.Name, l.Sink, l.Source)
		}
	}
	if c.FinalSink != nil {
		check(len(c.Passes), "", c.FinalSink.Sink, c.FinalSink.Source)
	}
	return issues
}
