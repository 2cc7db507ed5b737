package main

import (
	"flag"
	"fmt"

	"github.com/plan-systems/klog"

	"github.com/vf2systems/graphiso/graphiso"
	"github.com/vf2systems/graphiso/libgraph"
	"github.com/vf2systems/graphiso/libgraph/catalog"
)

var (
	dbPath  = flag.String("db", "", "catalog path (empty = no catalog)")
	addName = flag.String("add", "", "store -host in the catalog under this name")
	hostStr = flag.String("host", "", "host graph expression")
	patStr  = flag.String("pattern", "", "pattern graph expression")
	exact   = flag.Bool("exact", false, "exact isomorphism instead of subgraph embedding")
	limit   = flag.Int("limit", 0, "stop after this many embeddings (0 = first match only)")
)

func main() {
	fset := flag.NewFlagSet("", flag.ContinueOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "2")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	flag.Parse()
	defer klog.Flush()

	var host *libgraph.Graph
	if *hostStr != "" {
		var err error
		host, err = libgraph.ParseGraph(*hostStr)
		if err != nil {
			klog.Fatalf("host: %v", err)
		}
	}

	if *dbPath != "" {
		runCatalog(host)
		return
	}

	if host == nil || *patStr == "" {
		klog.Fatalf("need -host and -pattern (or -db)")
	}
	pattern, err := libgraph.ParseGraph(*patStr)
	if err != nil {
		klog.Fatalf("pattern: %v", err)
	}

	switch {
	case *exact:
		mp, ok, err := libgraph.FindIsomorphism(host, pattern, nil)
		if err != nil {
			klog.Fatalf("match: %v", err)
		}
		report(mp, ok)
	case *limit > 0:
		ms := libgraph.StreamSubgraphIsomorphisms(host, pattern, nil)
		hits := ms.PullN(*limit)
		if err := ms.Err(); err != nil {
			klog.Fatalf("match: %v", err)
		}
		fmt.Printf("%d embeddings\n", len(hits))
		for _, mp := range hits {
			printMapping(mp)
		}
	default:
		ok, err := libgraph.IsSubgraphIsomorphic(host, pattern, nil)
		if err != nil {
			klog.Fatalf("match: %v", err)
		}
		fmt.Println(ok)
	}
}

func runCatalog(host *libgraph.Graph) {
	cat, err := catalog.Open(catalog.Opts{Path: *dbPath})
	if err != nil {
		klog.Fatalf("catalog: %v", err)
	}
	defer cat.Close()

	if *addName != "" {
		if host == nil {
			klog.Fatalf("-add needs -host")
		}
		added, err := cat.TryAdd(*addName, host)
		if err != nil {
			klog.Fatalf("add: %v", err)
		}
		fmt.Printf("added=%v (%d total)\n", added, cat.Len())
		return
	}

	if *patStr == "" {
		klog.Fatalf("need -add or -pattern with -db")
	}
	pattern, err := libgraph.ParseGraph(*patStr)
	if err != nil {
		klog.Fatalf("pattern: %v", err)
	}
	hits, err := cat.FindContaining(pattern)
	if err != nil {
		klog.Fatalf("find: %v", err)
	}
	for _, e := range hits {
		fmt.Println(e.Name)
	}
}

func report(mp graphiso.Mapping, ok bool) {
	fmt.Println(ok)
	if ok {
		printMapping(mp)
	}
}

func printMapping(mp graphiso.Mapping) {
	for h, p := range mp {
		fmt.Printf("  %v -> %v\n", h, p)
	}
}
