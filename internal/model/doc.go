// Package model defines the core data structures shared by the dataset
// builder and the tag importer.
//
// # Asset
//
// Asset groups the files of one user that share a basename:
//
//	asset := model.NewAsset("Chao", "Item-1")
//	asset.Assign(model.ClassifyExt(".jpg"), "users/Chao/Item-1.jpg")
//	if asset.HasMedia() {
//	    row := asset.ToRow(describ)
//	}
//
// # Row
//
// Row is one line of the dataset CSV. Header lists the column order
// (src, bgc, audio, describ, title).
//
// # Descriptions
//
// NormalizeDescription cleans a hand-written note, JoinTags renders a tag
// list. Both use "; " between clauses.
package model
