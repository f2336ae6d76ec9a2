package c4

import (
	"strings"
	"testing"

	"github.com/matzehuels/c4x/pkg/dsl"
	"github.com/matzehuels/c4x/pkg/errors"
)

func mustBuild(t *testing.T, src string) *View {
	t.Helper()
	res, err := dsl.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	m, err := Build(res, "test")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m.View()
}

func TestBuild_Basic(t *testing.T) {
	v := mustBuild(t, "graph TB\nCustomer[Customer<br/>Person]\nSystem[System<br/>Software System]\nCustomer -->|Uses| System")

	if len(v.Elements) != 2 {
		t.Fatalf("len(Elements) = %d, want 2", len(v.Elements))
	}
	if v.Elements[0].Type != Person || v.Elements[1].Type != SoftwareSystem {
		t.Errorf("types = %v, %v, want Person, SoftwareSystem", v.Elements[0].Type, v.Elements[1].Type)
	}
	if len(v.Relationships) != 1 {
		t.Fatalf("len(Relationships) = %d, want 1", len(v.Relationships))
	}
	rel := v.Relationships[0]
	if rel.Type != RelUses || rel.ID != "rel-0" || rel.Label != "Uses" {
		t.Errorf("rel = %+v, want rel-0 uses Uses", rel)
	}
	if rel.Order != 0 {
		t.Errorf("Order = %d, want 0 outside dynamic views", rel.Order)
	}
	if v.Kind != ViewSystemContext || v.Direction != DirectionTB {
		t.Errorf("view = %v/%v, want system-context/TB", v.Kind, v.Direction)
	}
}

func TestNormalizeType(t *testing.T) {
	tests := []struct {
		raw  string
		want ElementType
		ok   bool
	}{
		{"Person", Person, true},
		{"person_ext", Person, true},
		{"Software System", SoftwareSystem, true},
		{"software   system", SoftwareSystem, true},
		{"SoftwareSystem", SoftwareSystem, true},
		{"System_Ext", SoftwareSystem, true},
		{"SystemDb", SoftwareSystem, true},
		{"SYSTEMDB_EXT", SoftwareSystem, true},
		{"Container", Container, true},
		{"ContainerDb_Ext", Container, true},
		{"Component", Component, true},
		{"ComponentDb", Component, true},
		{"Node", DeploymentNode, true},
		{"Deployment Node", DeploymentNode, true},
		{"Deployment_Node", DeploymentNode, true},
		{"Queue", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := NormalizeType(tt.raw)
			if got != tt.want || ok != tt.ok {
				t.Errorf("NormalizeType(%q) = %v, %v, want %v, %v", tt.raw, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestBuild_DerivedTags(t *testing.T) {
	src := `graph TB
Ext[Partner<br/>System_Ext]
Db[Store<br/>ContainerDb]
Both[Legacy<br/>SystemDb_Ext<br/>External]
Plain[Web<br/>Container]
`
	v := mustBuild(t, src)

	tests := []struct {
		id   string
		want string
	}{
		{"Ext", "External"},
		{"Db", "Database"},
		{"Both", "External,Database"},
		{"Plain", ""},
	}
	idx := v.Index()
	for _, tt := range tests {
		if got := strings.Join(idx[tt.id].Tags, ","); got != tt.want {
			t.Errorf("%s.Tags = %q, want %q", tt.id, got, tt.want)
		}
	}
	if !idx["Ext"].IsExternal() || idx["Plain"].IsExternal() {
		t.Error("IsExternal() mismatch")
	}
}

func TestBuild_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code errors.Code
		line int
	}{
		{
			name: "unknown type",
			src:  "graph TB\nA[A<br/>Person]\nQ[Queue<br/>Queue]\n",
			code: errors.ErrCodeUnknownElementType,
			line: 3,
		},
		{
			name: "duplicate top level",
			src:  "graph TB\nA[A<br/>Person]\nA[Again<br/>Person]\n",
			code: errors.ErrCodeDuplicateID,
			line: 3,
		},
		{
			name: "duplicate nested",
			src:  "Node(a, \"A\") {\n  Node(b, \"B\") {\n    Container(a, \"Dup\")\n  }\n}\n",
			code: errors.ErrCodeDuplicateID,
			line: 3,
		},
		{
			name: "unresolved from",
			src:  "graph TB\nA[A<br/>Person]\n\nGhost --> A\n",
			code: errors.ErrCodeUnresolvedRef,
			line: 4,
		},
		{
			name: "unresolved to",
			src:  "graph TB\nA[A<br/>Person]\nA --> Ghost\n",
			code: errors.ErrCodeUnresolvedRef,
			line: 3,
		},
		{
			name: "children on container",
			src:  "Container(api, \"API\") {\n  Component(c1, \"C1\")\n}\n",
			code: errors.ErrCodeInvalidNesting,
			line: 1,
		},
		{
			name: "children nested under deployment node",
			src:  "Node(k8s, \"K8s\") {\n  System(s, \"S\") {\n    Container(c, \"C\")\n  }\n}\n",
			code: errors.ErrCodeInvalidNesting,
			line: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := dsl.Parse(tt.src)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			_, err = Build(res, "test")
			if !errors.Is(err, tt.code) {
				t.Fatalf("Build() error = %v, want code %v", err, tt.code)
			}
			if errors.KindOf(err) != errors.KindSemantic {
				t.Errorf("KindOf() = %v, want %v", errors.KindOf(err), errors.KindSemantic)
			}
			if pos, _ := errors.PosOf(err); pos.Line != tt.line {
				t.Errorf("error line = %d, want %d", pos.Line, tt.line)
			}
		})
	}
}

func TestBuild_UnsupportedArrow(t *testing.T) {
	res := &dsl.ParseResult{
		Elements: []*dsl.RawElement{
			{ID: "a", Label: "A", Type: "Person"},
			{ID: "b", Label: "B", Type: "System"},
		},
		Relationships: []dsl.RawRelationship{
			{From: "a", To: "b", Arrow: "<->", Pos: errors.Pos{Line: 7, Column: 1}},
		},
	}
	_, err := Build(res, "test")
	if !errors.Is(err, errors.ErrCodeUnsupportedArrow) {
		t.Fatalf("Build() error = %v, want %v", err, errors.ErrCodeUnsupportedArrow)
	}
	if pos, _ := errors.PosOf(err); pos.Line != 7 {
		t.Errorf("error line = %d, want 7", pos.Line)
	}
}

func TestBuild_ArrowTypes(t *testing.T) {
	v := mustBuild(t, "graph TB\nA[A<br/>Person]\nB[B<br/>System]\nA --> B\nA -.-> B\nA ==> B\n")
	want := []RelType{RelUses, RelAsync, RelSync}
	for i, w := range want {
		if got := v.Relationships[i].Type; got != w {
			t.Errorf("Relationships[%d].Type = %v, want %v", i, got, w)
		}
	}
}

func TestBuild_DynamicOrder(t *testing.T) {
	v := mustBuild(t, "%%{ c4: dynamic }%%\nA[A<br/>Person]\nB[B<br/>System]\nA -->|Calls| B\nB -->|Replies| A\n")
	if v.Kind != ViewDynamic {
		t.Fatalf("Kind = %v, want %v", v.Kind, ViewDynamic)
	}
	for i, rel := range v.Relationships {
		if rel.Order != i+1 {
			t.Errorf("Relationships[%d].Order = %d, want %d", i, rel.Order, i+1)
		}
		if want := "rel-" + string(rune('0'+i)); rel.ID != want {
			t.Errorf("Relationships[%d].ID = %q, want %q", i, rel.ID, want)
		}
	}
}

func TestBuild_Boundaries(t *testing.T) {
	src := `graph TB
subgraph Bank["Internet  Banking"] {
    direction LR
    Web[Web<br/>Container]
    subgraph Core {
        Api[API<br/>Container]
    }
}
Web --> Api
`
	v := mustBuild(t, src)
	if len(v.Boundaries) != 2 {
		t.Fatalf("len(Boundaries) = %d, want 2", len(v.Boundaries))
	}
	if b := v.Boundaries[0]; b.ID != "internet-banking-boundary-0" || b.Direction != DirectionLR {
		t.Errorf("Boundaries[0] = %+v", b)
	}
	if b := v.Boundaries[1]; b.ID != "core-boundary-1" || strings.Join(b.Elements, ",") != "Api" {
		t.Errorf("Boundaries[1] = %+v", b)
	}
	if p := v.Boundaries[1].Parent; p != "internet-banking-boundary-0" {
		t.Errorf("Boundaries[1].Parent = %q, want internet-banking-boundary-0", p)
	}
	if p := v.Boundaries[0].Parent; p != "" {
		t.Errorf("Boundaries[0].Parent = %q, want empty", p)
	}
	if len(v.Elements) != 2 {
		t.Errorf("len(Elements) = %d, want 2", len(v.Elements))
	}
}

func TestBuild_DeepReference(t *testing.T) {
	src := `%%{ c4: deployment }%%
Person(user, "User")
Node(aws, "AWS") {
    Node(region, "Region") {
        Node(k8s, "Cluster") {
            Container(api, "API")
        }
    }
}
user --> api
`
	v := mustBuild(t, src)
	if v.Count() != 5 {
		t.Errorf("Count() = %d, want 5", v.Count())
	}
	if rel := v.Relationships[0]; rel.To != "api" {
		t.Errorf("rel.To = %q, want api", rel.To)
	}
	if typ := v.Index()["aws"].Type; typ != DeploymentNode {
		t.Errorf("aws.Type = %v, want %v", typ, DeploymentNode)
	}
}

func TestBuild_MetadataCopied(t *testing.T) {
	res, err := dsl.Parse("graph TB\nA[A<br/>Component<br/>$x=\"100\"<br/>$y=\"40\"]\n")
	if err != nil {
		t.Fatal(err)
	}
	m, err := Build(res, "ws")
	if err != nil {
		t.Fatal(err)
	}
	if m.Workspace != "ws" {
		t.Errorf("Workspace = %q, want ws", m.Workspace)
	}
	el := m.View().Elements[0]
	if el.Metadata["x"] != "100" || el.Metadata["y"] != "40" {
		t.Errorf("Metadata = %v", el.Metadata)
	}
	res.Elements[0].Metadata["x"] = "999"
	if el.Metadata["x"] != "100" {
		t.Error("model shares metadata with parse result")
	}
}

func TestBuild_NilResult(t *testing.T) {
	if _, err := Build(nil, "x"); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Build(nil) error = %v, want %v", err, errors.ErrCodeInvalidInput)
	}
}

func TestWalk(t *testing.T) {
	v := mustBuild(t, "Node(a, \"A\") {\n  Container(b, \"B\")\n  Node(c, \"C\") {\n    Container(d, \"D\")\n  }\n}\nPerson(e, \"E\")\n")

	var order []string
	parents := map[string]string{}
	Walk(v.Elements, func(e, parent *Element) bool {
		order = append(order, e.ID)
		if parent != nil {
			parents[e.ID] = parent.ID
		}
		return true
	})
	if got := strings.Join(order, ","); got != "a,b,c,d,e" {
		t.Errorf("Walk order = %s, want a,b,c,d,e", got)
	}
	if parents["d"] != "c" || parents["b"] != "a" {
		t.Errorf("parents = %v", parents)
	}

	var pruned []string
	Walk(v.Elements, func(e, _ *Element) bool {
		pruned = append(pruned, e.ID)
		return e.ID != "c"
	})
	if got := strings.Join(pruned, ","); got != "a,b,c,e" {
		t.Errorf("pruned Walk = %s, want a,b,c,e", got)
	}
}
