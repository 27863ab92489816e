/*
Package operation runs batches: the content round trip and the file rename.

	+-------------+      +-------------+      +-------------+
	|  Discovery  | ---> |  Pipeline   | ---> |  Reporter   |
	| (matcher)   |      | (per file)  |      | (lines)     |
	+-------------+      +------+------+      +-------------+
	                            |
	               +------------+------------+
	               |                         |
	        +------+------+           +------+------+
	        |  RoundTrip  |           |   Rename    |
	        | (converter) |           | (os.Rename) |
	        +-------------+           +-------------+

🎯 Purpose:
- Turns one BatchRequest into one Summary
- Isolates per-file failures so a batch always finishes
- Keeps the intermediate artifact from outliving its file

🔄 Round trip, per file:
1. convert2json writes <path>.json
2. the artifact is edited with a literal replace-all
3. convert2mod runs only when the artifact changed
4. the artifact is removed when DeleteIntermediate is set

A file whose first conversion failed is not mutated and not cleaned up.
Every other path removes the artifact, including failed mutations and failed
reverse conversions.

🔄 Rename, per file:
1. skip when the base name does not contain the search text
2. compute the sibling name with a literal replace-all
3. refuse to overwrite an existing destination

⚡ Concurrency:
A Runner executes each batch on its own goroutine and files are handled one
at a time. RunAll starts independent batches together. There is no locking
between batches, so two batches touching the same files interleave in no
particular order.

🔍 Example:

	rt := operation.NewRoundTrip(converter.NewExecClient(bin), reporter)
	summary, err := rt.Run(ctx, config.NewReplaceRequest("/mods", "old", "new"))
*/
package operation
