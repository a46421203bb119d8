// Package sheetser serializes Go structs onto the two-dimensional cell grid
// of a spreadsheet sheet.
//
// The workflow has two phases. A layout is registered first, either
// discovered from a sample value (RegisterHeaders) or supplied explicitly
// as field descriptors (RegisterHeadersWithOptions); registration assigns
// each field a fixed column from the start cell and optionally writes a
// header row. Serialize then walks one record (or a slice of records) per
// call and writes each field's scalar value into that field's column,
// one row per record, advancing automatically.
//
// Several struct types can be registered at different start cells on the
// same sheet and serialized in any interleaved order; each type's rows
// advance independently. Fields not covered by a registered layout are
// silently ignored, which allows exporting a selection of a large type's
// fields. Maps, nested structs and sum-type variants have no grid
// representation and are dropped.
//
// The physical grid is abstracted behind the GridSink interface; the
// excelize-backed implementation lives in pkg/sheetgrid.
package sheetser
