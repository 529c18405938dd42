// Package dataset reads and writes the CSV files consumed by the installation.
//
//	table := dataset.FromRows(rows)
//	err := table.WriteFile(ctx, "imagedata-suzhou.csv")
//
//	table, err := dataset.ReadFile("imagedata-shz.csv")
//	table.Set(0, model.ColumnDescrib, "x; y")
package dataset
