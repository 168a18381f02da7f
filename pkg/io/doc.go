// Package io reads and writes compiled diagrams as JSON.
//
// A layout file records everything a sink needs: the model (nodes, edges,
// styles, direction), the measured boxes, the placements and the edge
// anchors. Rendering a layout file again skips parsing, measuring and
// layout entirely, so a diagram can be laid out once and drawn in several
// formats, or post-processed by other tools.
//
// # JSON Format
//
//	{
//	  "direction": "TB",
//	  "width": 75, "height": 110,
//	  "nodes": [
//	    {"id": "a", "label": "Start", "shape": "rounded", "provenance": "explicit",
//	     "x": 37.5, "y": 15, "width": 75, "height": 30, "rank": 0, "order": 0,
//	     "id_text": {"w": 4.8, "h": 9.6}, "label_text": {"w": 36, "h": 14.4}}
//	  ],
//	  "edges": [
//	    {"from": "a", "to": "b", "line": "thin", "source_head": "none",
//	     "target_head": "right", "start": {"x": 37.5, "y": 33},
//	     "end": {"x": 37.5, "y": 72.5}}
//	  ]
//	}
//
// Nodes appear in model order, which is declaration order. [ReadJSON]
// rebuilds the model through [diagram.Builder], so node identity and
// edge replace-by-key hold for imported files as well.
package io
