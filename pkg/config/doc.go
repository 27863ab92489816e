/*
Package config describes batches: the BatchRequest value every pipeline runs
from, and the configuration files that hold several of them.

	            +---------------+
	            | BatchRequest  |
	            |  (one batch)  |
	            +-------+-------+
	                    |
	      +------+------+------+------+
	      |      |             |      |
	   +--+--+ +-+--+       +--+-+ +--+--+
	   | YAML| | HCL|       |JSON| |TOML |
	   +-----+ +----+       +----+ +-----+

🎯 Purpose:
- Builds immutable BatchRequest values from flags or files
- Validates parameters before a batch starts
- Finds the user config in the XDG config directories

🔄 Flow:
1. Load reads a file and picks a Parser by extension
2. Validate checks the file structure
3. Requests turns each batch into a BatchRequest with defaults applied
4. BatchRequest.Validate checks the batch against the filesystem

🔍 Example (YAML):

	converter: C:/tools/MeidoSerialization.exe
	batches:
	  - name: skins
	    kind: replace
	    root: ./Mod/skins
	    types: [menu, mate]
	    search: old_skin
	    replace: new_skin
	  - kind: rename
	    root: ./Mod/skins
	    pattern: "*.menu"
	    search: old_
	    replace: new_
*/
package config
