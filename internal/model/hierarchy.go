package model

// Level identifies one of the four classification levels used in
// government budget accounting, from Chapter (widest) to Type (narrowest).
type Level string

const (
	LevelChapter Level = "chapter"
	LevelSection Level = "section"
	LevelItem    Level = "item"
	LevelType    Level = "type"
)

// HierarchyNode is one node in the chapter/section/item/type tree.
// Nodes are created lazily on first encounter during ingestion and are
// never deleted afterwards, since historical entries reference them.
type HierarchyNode struct {
	ID       string
	ParentID string // empty for chapters
	Name     string
	Level    Level
}

// Class splits the hierarchy into revenue and use (expenditure) halves.
type Class string

const (
	ClassRevenue Class = "revenue"
	ClassUse     Class = "use"
	ClassUnknown Class = ""
)

// ClassOf returns the revenue/use classification of a hierarchy key.
// Chapter prefix "1" marks revenue, "2" marks use.
func ClassOf(key string) Class {
	if key == "" {
		return ClassUnknown
	}
	switch key[0] {
	case '1':
		return ClassRevenue
	case '2':
		return ClassUse
	}
	return ClassUnknown
}
