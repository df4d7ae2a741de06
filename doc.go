// dagflow - typed message-passing dataflow graphs in Go
//
// dagflow composes heterogeneous computation units - deterministic
// functions, provider-backed responders, aggregators - into directed
// message-passing graphs. Work fans out across independent branches,
// partial results fan back in at a join node, and a run yields one
// terminal output once the join's arity is met.
//
// Install:
//
//	go get github.com/smallnest/dagflow
//
// Basic example:
//
//	package main
//
//	import (
//		"context"
//		"fmt"
//
//		"github.com/smallnest/dagflow/graph"
//		"github.com/smallnest/dagflow/provider/openai"
//	)
//
//	func main() {
//		llm, _ := openai.New()
//
//		b := graph.NewBuilder()
//		b.AddNode(graph.Passthrough("start"))
//		b.AddNode(graph.Respond("fr", llm).WithPromptTemplate("Translate to French: %s"))
//		b.AddNode(graph.Respond("en", llm).WithPromptTemplate("Rephrase in English: %s"))
//		b.AddNode(graph.Join("agg", 2, graph.ConcatStrings("\n")))
//		b.ConnectFanOut("start", "fr", "en")
//		b.ConnectFanIn([]string{"fr", "en"}, "agg")
//		b.SetStart("start")
//		b.SetOutput("agg")
//
//		g, err := b.Build()
//		if err != nil {
//			panic(err)
//		}
//
//		out, err := g.NewRunner(graph.WithParallelDispatch()).Invoke(context.Background(), "Hello")
//		if err != nil {
//			panic(err)
//		}
//		fmt.Println(out)
//	}
//
// Packages:
//
//   - graph: builder, immutable graph, runner, built-in node kinds
//   - provider, provider/openai, adapter: computation providers for
//     responder nodes
//   - host: run IDs, lifecycle logging, run journaling
//   - store and backends: the run journal (memory, redis, sqlite, postgres)
//   - log: the logging surface shared by all of the above
package dagflow
