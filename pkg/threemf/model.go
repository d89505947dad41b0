package threemf

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/Faultbox/lamina/pkg/mesh"
)

// 3MF schema identifiers.
const (
	nsCore            = "http://schemas.microsoft.com/3dmanufacturing/core/2015/02"
	relTypeModel      = "http://schemas.microsoft.com/3dmanufacturing/2013/01/3dmodel"
	ctModel           = "application/vnd.ms-package.3dmanufacturing-3dmodel+xml"
	ctRels            = "application/vnd.openxmlformats-package.relationships+xml"
	nsContentTypes    = "http://schemas.openxmlformats.org/package/2006/content-types"
	nsRelationships   = "http://schemas.openxmlformats.org/package/2006/relationships"
	identityTransform = "1 0 0 0 1 0 0 0 1 0 0 0"

	materialGroupID = "1"
	meshObjectID    = "2"
)

// modelNamespaces is the namespace table for the generated model document.
// Declarations live on the root element; no prefixes are registered
// anywhere else, so serialization does not depend on global state.
var modelNamespaces = [][2]string{
	{"xmlns", nsCore},
}

// BaseMaterial is one renderable color in the package's material group.
type BaseMaterial struct {
	Name       string
	R, G, B, A uint8
}

// Build constructs a minimal valid 3MF package from a mesh: OPC
// descriptors, one mesh object named "part", and one build item with an
// identity transform. When materials are given, a basematerials group is
// added and set as the object-level default property so slicers treat the
// object as multi-material; no per-triangle assignment is made here.
//
// The model document's triangle elements appear in exactly the mesh's
// triangle order. Downstream painting matches triangles by position, so
// this ordering is part of the package contract.
func Build(m *mesh.Mesh, materials []BaseMaterial) (*Package, error) {
	if len(m.Vertices) == 0 || len(m.Triangles) == 0 {
		return nil, fmt.Errorf("%w: %d vertices, %d triangles",
			ErrEmptyMesh, len(m.Vertices), len(m.Triangles))
	}

	model, err := buildModelDocument(m, materials)
	if err != nil {
		return nil, err
	}

	p := NewPackage()
	p.Add(contentTypesPath, buildContentTypes())
	p.Add(relsPath, buildRelationships())
	p.Add(ModelPath, model)
	return p, nil
}

func buildModelDocument(m *mesh.Mesh, materials []BaseMaterial) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	model := doc.CreateElement("model")
	for _, ns := range modelNamespaces {
		model.CreateAttr(ns[0], ns[1])
	}
	model.CreateAttr("unit", "millimeter")
	model.CreateAttr("xml:lang", "en-US")

	resources := model.CreateElement("resources")

	if len(materials) > 0 {
		group := resources.CreateElement("basematerials")
		group.CreateAttr("id", materialGroupID)
		for _, mat := range materials {
			base := group.CreateElement("base")
			base.CreateAttr("name", mat.Name)
			base.CreateAttr("displaycolor",
				fmt.Sprintf("#%02X%02X%02X%02X", mat.R, mat.G, mat.B, mat.A))
		}
	}

	object := resources.CreateElement("object")
	object.CreateAttr("id", meshObjectID)
	object.CreateAttr("type", "model")
	object.CreateAttr("name", "part")
	if len(materials) > 0 {
		object.CreateAttr("pid", materialGroupID)
		object.CreateAttr("pindex", "0")
	}

	meshEl := object.CreateElement("mesh")
	vertices := meshEl.CreateElement("vertices")
	for _, v := range m.Vertices {
		vert := vertices.CreateElement("vertex")
		vert.CreateAttr("x", formatCoord(v.X))
		vert.CreateAttr("y", formatCoord(v.Y))
		vert.CreateAttr("z", formatCoord(v.Z))
	}
	triangles := meshEl.CreateElement("triangles")
	for _, t := range m.Triangles {
		tri := triangles.CreateElement("triangle")
		tri.CreateAttr("v1", strconv.FormatUint(uint64(t.V1), 10))
		tri.CreateAttr("v2", strconv.FormatUint(uint64(t.V2), 10))
		tri.CreateAttr("v3", strconv.FormatUint(uint64(t.V3), 10))
	}

	build := model.CreateElement("build")
	item := build.CreateElement("item")
	item.CreateAttr("objectid", meshObjectID)
	item.CreateAttr("transform", identityTransform)

	doc.Indent(1)
	return doc.WriteToBytes()
}

func buildContentTypes() []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	types := doc.CreateElement("Types")
	types.CreateAttr("xmlns", nsContentTypes)
	rels := types.CreateElement("Default")
	rels.CreateAttr("Extension", "rels")
	rels.CreateAttr("ContentType", ctRels)
	model := types.CreateElement("Default")
	model.CreateAttr("Extension", "model")
	model.CreateAttr("ContentType", ctModel)
	doc.Indent(1)
	out, _ := doc.WriteToBytes()
	return out
}

func buildRelationships() []byte {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	rels := doc.CreateElement("Relationships")
	rels.CreateAttr("xmlns", nsRelationships)
	rel := rels.CreateElement("Relationship")
	rel.CreateAttr("Id", "rel0")
	rel.CreateAttr("Target", "/"+ModelPath)
	rel.CreateAttr("Type", relTypeModel)
	doc.Indent(1)
	out, _ := doc.WriteToBytes()
	return out
}

// formatCoord renders a coordinate with the fewest digits that round-trip.
func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
