// Package io provides JSON import and export for trees.
//
// # Overview
//
// A snapshot captures everything needed to bring an edited tree back: the
// structure, leaf weights, which nodes are expanded, node colours and the
// metadata builders attached. Snapshots are used to:
//
//   - Cache built trees so a dataset is parsed only once
//   - Save and resume editing sessions
//   - Exchange trees with the HTTP API and external tools
//
// # JSON Format
//
//	{
//	  "kind": "fs",
//	  "root": {
//	    "name": "project",
//	    "weight": 1200,
//	    "expanded": true,
//	    "color": "#3b7dd8",
//	    "meta": {"path": "/home/me/project"},
//	    "children": [
//	      {"name": "main.go", "weight": 1200, "color": "#d83b6a"}
//	    ]
//	  }
//	}
//
// A null name denotes the empty node. Leaf weights are authoritative;
// internal weights are written for readers' convenience and recomputed on
// import. The kind selects how nodes are described (see the source
// packages).
//
// # Import
//
// [ReadJSON] and [ImportJSON] rebuild the tree and check every invariant:
// negative weights, an empty node with children, an expanded leaf or an
// expanded node under a collapsed one are all INVALID_TREE errors. Malformed
// JSON is an INVALID_FORMAT error.
//
// # Export
//
// [WriteJSON] and [ExportJSON] write the tree reachable from the root.
// Deleted nodes are no longer reachable and are not exported.
package io
