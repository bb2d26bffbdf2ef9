// Package io encodes and decodes the persisted build record.
//
// # Overview
//
// A build is persisted as a single JSON array holding the brick sequence and
// nothing else: the palette, the selection and the undo history are never
// written. The format is the one the original browser editor kept in local
// storage, so existing saves load unchanged.
//
// # JSON Format
//
//	[
//	  {"id": "brick-0", "typeId": "brick-2x2", "position": [0, 0.75, 0], "rotation": [0, 0, 0]},
//	  {"id": "brick-1", "typeId": "brick-1x4", "position": [3, 0.625, -1], "rotation": [0, 0, 0], "color": "#ef4444"}
//	]
//
// Required per brick: id, typeId, position. Optional: rotation (defaults to
// zero) and color (absent means the definition color).
//
// # Validation
//
// [Unmarshal] and [ReadJSON] reject, with an INVALID_FORMAT error:
//   - Malformed JSON, a top-level value other than an array, or trailing data
//   - A brick without id, typeId or position
//   - Vectors that do not have exactly three components
//   - Duplicate brick ids
//
// A typeId that names no catalog entry is accepted: dangling types are
// tolerated and render as "unknown".
//
// # Files
//
// [ExportJSON] and [ImportJSON] read and write builds on disk for the
// "scene export" and "scene import" commands.
package io
