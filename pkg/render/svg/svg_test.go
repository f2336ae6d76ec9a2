package svg

import (
	"bytes"
	"encoding/xml"
	"io"
	"strings"
	"testing"

	"github.com/matzehuels/c4x/pkg/c4"
	"github.com/matzehuels/c4x/pkg/dsl"
	"github.com/matzehuels/c4x/pkg/layout"
	"github.com/matzehuels/c4x/pkg/theme"
)

func mustLayout(t *testing.T, src string) *layout.Result {
	t.Helper()
	res, err := dsl.Parse(src)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	m, err := c4.Build(res, "test")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return layout.LayoutView(m.View())
}

func wellFormed(t *testing.T, doc []byte) {
	t.Helper()
	dec := xml.NewDecoder(bytes.NewReader(doc))
	for {
		if _, err := dec.Token(); err != nil {
			if err == io.EOF {
				return
			}
			t.Fatalf("invalid XML: %v\n%s", err, doc)
		}
	}
}

const bankingSrc = `graph TB
Customer[Customer<br/>Person]
subgraph Bank["Internet Banking"] {
    Web[Web App<br/>Container<br/>$techn="Go"]
    Db[Store<br/>ContainerDb]
}
Mail[Mail & Co<br/>System_Ext]
Customer -->|Uses| Web
Web -.->|Reads "data"| Db
Web ==> Mail
`

func TestRender_Structure(t *testing.T) {
	out := Render(mustLayout(t, bankingSrc))
	wellFormed(t, out)
	s := string(out)

	order := []string{`<rect x="0" y="0"`, "<defs>", `class="boundaries"`, `class="deployment-nodes"`, `class="edges"`, `class="nodes"`}
	last := -1
	for _, marker := range order {
		i := strings.Index(s, marker)
		if i < 0 {
			t.Fatalf("output missing %q", marker)
		}
		if i < last {
			t.Errorf("%q out of paint order", marker)
		}
		last = i
	}

	for _, want := range []string{
		`id="arrow-uses"`, `id="arrow-async"`, `id="arrow-sync"`,
		`<path d="M0,0 L8,3 L0,6 z"`,
		`marker-end="url(#arrow-async)" stroke-dasharray="8,4"`,
		`Mail &amp; Co`,
		`Reads &quot;data&quot;`,
		`[Container: Go]`,
		`[Software System]`,
		`External`,
		`Internet Banking</text>`,
		`class="node person"`,
	} {
		if !strings.Contains(s, want) {
			t.Errorf("output missing %q", want)
		}
	}
	if strings.Contains(s, `marker-end="url(#arrow-sync)" stroke-dasharray`) {
		t.Error("sync connector should be solid")
	}
}

func TestRender_Deterministic(t *testing.T) {
	first := Render(mustLayout(t, bankingSrc))
	for range 3 {
		if got := Render(mustLayout(t, bankingSrc)); !bytes.Equal(got, first) {
			t.Fatal("Render() is not deterministic")
		}
	}
}

func TestRender_ThemeColors(t *testing.T) {
	res := mustLayout(t, bankingSrc)

	classic := string(Render(res))
	if !strings.Contains(classic, `stroke="#1168BD"`) && !strings.Contains(classic, `stroke="#438DD5"`) {
		t.Error("classic colours missing")
	}
	if !strings.Contains(classic, `stroke="#999999"`) {
		t.Error("external system should use the external stroke")
	}

	hc := string(Render(res, WithTheme(theme.HighContrast)))
	if !strings.Contains(hc, `stroke="#006600"`) || !strings.Contains(hc, `font-size="16"`) {
		t.Error("high-contrast colours or font size missing")
	}

	modern := string(Render(res, WithTheme(theme.Modern)))
	if !strings.Contains(modern, `filter="url(#drop-shadow)"`) {
		t.Error("modern theme should apply the drop shadow")
	}
	if strings.Contains(classic, `filter="url(#drop-shadow)"`) {
		t.Error("classic theme should not apply the drop shadow")
	}
}

func TestRender_Options(t *testing.T) {
	res := mustLayout(t, bankingSrc)
	s := string(Render(res, WithIDPrefix("d1-"), WithoutBackground()))

	if strings.Contains(s, `<rect x="0" y="0"`) {
		t.Error("WithoutBackground() still drew the background")
	}
	if !strings.Contains(s, `id="d1-arrow-uses"`) || !strings.Contains(s, `url(#d1-arrow-uses)`) {
		t.Error("WithIDPrefix() not applied to markers")
	}
}

func TestRender_DynamicLabels(t *testing.T) {
	src := "%%{ c4: dynamic }%%\nA[A<br/>Person]\nB[B<br/>System]\nC[C<br/>System]\nA -->|Login| B\nB --> C\n"
	s := string(Render(mustLayout(t, src)))

	if !strings.Contains(s, ">1: Login</text>") {
		t.Error("missing sequence-numbered label 1: Login")
	}
	if !strings.Contains(s, ">2: </text>") {
		t.Error("empty dynamic label should render as 2: ")
	}
}

func TestRender_Sprites(t *testing.T) {
	src := "graph TB\nA[A<br/>Container<br/>$sprite=\"database\"]\nB[B<br/>Container<br/>$sprite=\"nonexistent\"]\n"
	s := string(Render(mustLayout(t, src)))

	if !strings.Contains(s, `data-sprite="database"`) || !strings.Contains(s, `<path d="M20,30 L20,70`) {
		t.Error("database sprite not rendered")
	}
	if !strings.Contains(s, `data-sprite="nonexistent" transform="translate(`) {
		t.Fatal("unknown sprite group missing")
	}
	i := strings.Index(s, `data-sprite="nonexistent"`)
	if end := strings.Index(s[i:], "</g>"); !strings.HasSuffix(s[i:i+end], `">`) {
		t.Error("unknown sprite group should be empty")
	}
}

func TestRender_DeploymentNodes(t *testing.T) {
	src := "%%{ c4: deployment }%%\nNode(aws, \"AWS\") {\n  Node(k8s, \"Cluster\") {\n    Container(api, \"API\")\n  }\n}\n"
	s := string(Render(mustLayout(t, src)))

	aws := strings.Index(s, `class="deployment-node" data-id="aws"`)
	k8s := strings.Index(s, `class="deployment-node" data-id="k8s"`)
	api := strings.Index(s, `class="node" data-id="api"`)
	if aws < 0 || k8s < 0 || api < 0 {
		t.Fatalf("missing groups: aws=%d k8s=%d api=%d", aws, k8s, api)
	}
	if !(aws < k8s && k8s < api) {
		t.Error("deployment nodes must paint outer first and before leaves")
	}
	if !strings.Contains(s, `stroke="#666666"`) {
		t.Error("classic deployment stroke missing")
	}
}

func TestRender_DanglingRelationship(t *testing.T) {
	res := &layout.Result{
		Width: 200, Height: 200,
		Relationships: []layout.RoutedRelationship{{
			Relationship: c4.Relationship{ID: "rel-0", From: "a", To: "ghost", Label: "x"},
			Points:       []layout.Point{},
		}},
	}
	s := string(Render(res))
	wellFormed(t, []byte(s))
	if strings.Contains(s, `class="edge"`) {
		t.Error("dangling relationship should not draw a connector")
	}
}

func TestRender_SelfLoop(t *testing.T) {
	s := string(Render(mustLayout(t, "graph TB\nA[Worker<br/>Container]\nA -->|retries| A\n")))
	wellFormed(t, []byte(s))

	i := strings.Index(s, `class="edge"`)
	if i < 0 {
		t.Fatalf("self loop drew no connector\n%s", s)
	}
	edge := s[i:]
	if !strings.Contains(edge, `<path d="M`) || !strings.Contains(edge, " C") {
		t.Errorf("self loop should be a curve\n%s", edge)
	}
	if !strings.Contains(edge, ">retries</text>") {
		t.Errorf("self loop label missing\n%s", edge)
	}
}

func TestEscapeXML(t *testing.T) {
	got := EscapeXML(`<a href="x">Tom & Jerry's</a>`)
	want := "&lt;a href=&quot;x&quot;&gt;Tom &amp; Jerry&apos;s&lt;/a&gt;"
	if got != want {
		t.Errorf("EscapeXML() = %q, want %q", got, want)
	}
}

func TestNum(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{80, "80"},
		{12.5, "12.5"},
		{1.0 / 3, "0.33"},
		{-0.001, "0"},
	}
	for _, tt := range tests {
		if got := num(tt.in); got != tt.want {
			t.Errorf("num(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
