package holdings

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const infoTableXML = `<?xml version="1.0" encoding="UTF-8"?>
<informationTable xmlns="http://www.sec.gov/edgar/document/thirteenf/informationtable" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">
  <infoTable>
    <nameOfIssuer>APPLE INC</nameOfIssuer>
    <titleOfClass>COM</titleOfClass>
    <cusip>037833100</cusip>
    <value>174347543</value>
    <shrsOrPrnAmt>
      <sshPrnamt>905560000</sshPrnamt>
      <sshPrnamtType>SH</sshPrnamtType>
    </shrsOrPrnAmt>
    <investmentDiscretion>DFND</investmentDiscretion>
    <votingAuthority>
      <Sole>905560000</Sole>
      <Shared>0</Shared>
      <None>0</None>
    </votingAuthority>
  </infoTable>
  <infoTable>
    <nameOfIssuer>ALLY FINL INC</nameOfIssuer>
    <titleOfClass>COM</titleOfClass>
    <cusip>02005N100</cusip>
    <value>1128148</value>
    <shrsOrPrnAmt>
      <sshPrnamt>29000000</sshPrnamt>
      <sshPrnamtType>SH</sshPrnamtType>
    </shrsOrPrnAmt>
    <investmentDiscretion>DFND</investmentDiscretion>
    <otherManager>4</otherManager>
    <votingAuthority>
      <Sole>29000000</Sole>
      <Shared>0</Shared>
      <None>0</None>
    </votingAuthority>
  </infoTable>
</informationTable>`

const infoTableTSV = "nameOfIssuer\ttitleOfClass\tcusip\tvalue\tsshPrnamt\tsshPrnamtType\tinvestmentDiscretion\totherManager\tSole\tShared\tNone\n" +
	"APPLE INC\tCOM\t037833100\t174347543\t905560000\tSH\tDFND\tN/A \t905560000\t0\t0\t\n" +
	"ALLY FINL INC\tCOM\t02005N100\t1128148\t29000000\tSH\tDFND\t4\t29000000\t0\t0\t\n"

// convert parses and flattens doc, then writes it with opts.
func convert(t *testing.T, doc, placeholder string, opts ...WriterOption) (*Table, string) {
	t.Helper()

	root, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	table, err := Flatten(root, placeholder)
	if err != nil {
		t.Fatalf("failed to flatten: %v", err)
	}

	var buf bytes.Buffer
	if _, err := NewWriter(&buf, opts...).Write(table); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	return table, buf.String()
}

// TestConvertInformationTable tests the full conversion of a 13F information table.
func TestConvertInformationTable(t *testing.T) {
	t.Parallel()

	table, got := convert(t, infoTableXML, "N/A ")

	if got != infoTableTSV {
		t.Errorf("unexpected output:\n got: %q\nwant: %q", got, infoTableTSV)
	}

	if n := len(table.Schema); n != 11 {
		t.Errorf("expected 11 columns, got %d", n)
	}
	if table.Schema[0].Name() != "{http://www.sec.gov/edgar/document/thirteenf/informationtable}nameOfIssuer" {
		t.Errorf("expected namespace-qualified name, got %q", table.Schema[0].Name())
	}

	missing := table.MissingByHeader()
	if missing["otherManager"] != 1 {
		t.Errorf("expected 1 missing otherManager, got %d", missing["otherManager"])
	}
	if missing["cusip"] != 0 {
		t.Errorf("expected no missing cusip, got %d", missing["cusip"])
	}
}

// TestFlattenUniformRecords tests that identical records give N+1 equal-width lines.
func TestFlattenUniformRecords(t *testing.T) {
	t.Parallel()

	doc := `<root>
		<row><a>1</a><b>2</b><c>3</c></row>
		<row><a>4</a><b>5</b><c>6</c></row>
		<row><a>7</a><b>8</b><c>9</c></row>
	</root>`

	_, got := convert(t, doc, "N/A ", WithTrailingSeparator(false))

	lines := strings.Split(strings.TrimSuffix(got, "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d: %q", len(lines), got)
	}
	for i, line := range lines {
		if n := len(strings.Split(line, "\t")); n != 3 {
			t.Errorf("line %d: expected 3 fields, got %d (%q)", i, n, line)
		}
	}
}

// TestInferSchema tests choosing the record with the most leaves.
func TestInferSchema(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want []string
	}{
		{
			name: "leaf counts 3, 5, 4 pick the five-leaf record",
			doc: `<root>
				<r><a/><b/><c/></r>
				<r><a/><b/><g><c/><d/></g><e/></r>
				<r><a/><b/><c/><d/></r>
			</root>`,
			want: []string{"a", "b", "c", "d", "e"},
		},
		{
			name: "first maximum wins a tie",
			doc: `<root>
				<r><x/><y/></r>
				<r><p/><q/></r>
			</root>`,
			want: []string{"x", "y"},
		},
		{
			name: "record without children is its own leaf",
			doc:  `<root><meta>v1</meta><meta>v2</meta></root>`,
			want: []string{"meta"},
		},
		{
			name: "namespace prefix is stripped from headers",
			doc: `<ns1:root xmlns:ns1="urn:a" xmlns:ns2="urn:b">
				<ns1:r><ns1:a/><ns2:b/></ns1:r>
			</ns1:root>`,
			want: []string{"a", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root, err := Parse(strings.NewReader(tt.doc))
			if err != nil {
				t.Fatalf("failed to parse: %v", err)
			}
			schema, err := InferSchema(root)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := schema.Headers()
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestFlattenMissingAndRepeatedFields tests placeholder filling and repeated tags.
func TestFlattenMissingAndRepeatedFields(t *testing.T) {
	t.Parallel()

	t.Run("missing field gets placeholder", func(t *testing.T) {
		t.Parallel()

		doc := `<root><r><a>1</a><b>2</b></r><r><b>3</b></r></root>`
		table, got := convert(t, doc, "N/A ")

		want := "a\tb\n1\t2\t\nN/A \t3\t\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
		if table.Missing[0] != 1 || table.Missing[1] != 0 {
			t.Errorf("unexpected missing counts %v", table.Missing)
		}
	})

	t.Run("fields match across namespaces exactly", func(t *testing.T) {
		t.Parallel()

		doc := `<root xmlns:x="urn:x" xmlns:y="urn:y">
			<r><x:a>1</x:a></r>
			<r><y:a>2</y:a></r>
		</root>`
		_, got := convert(t, doc, "-", WithTrailingSeparator(false))

		want := "a\n1\n-\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("repeated tags map by occurrence", func(t *testing.T) {
		t.Parallel()

		doc := `<root>
			<r><id>A</id><id>B</id><v>1</v></r>
			<r><id>C</id><v>2</v></r>
		</root>`
		table, got := convert(t, doc, "N/A", WithTrailingSeparator(false))

		if table.Schema[1].Occurrence != 1 {
			t.Errorf("expected second id column to have occurrence 1, got %d", table.Schema[1].Occurrence)
		}
		want := "id\tid\tv\nA\tB\t1\nC\tN/A\t2\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})

	t.Run("repeats beyond the schema record are counted as dropped", func(t *testing.T) {
		t.Parallel()

		doc := `<root>
			<r><a>1</a><b>2</b><c>3</c></r>
			<r><a>x</a><a>y</a></r>
		</root>`
		table, got := convert(t, doc, "N/A ")

		want := "a\tb\tc\n1\t2\t3\t\nx\tN/A \tN/A \t\n"
		if got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
		if table.Dropped != 1 {
			t.Errorf("expected 1 dropped value, got %d", table.Dropped)
		}
	})

	t.Run("empty element yields empty value", func(t *testing.T) {
		t.Parallel()

		doc := `<root><r><a></a><b>x</b></r></root>`
		_, got := convert(t, doc, "N/A ")
		if want := "a\tb\n\tx\t\n"; got != want {
			t.Errorf("expected %q, got %q", want, got)
		}
	})
}

// TestWriterHeaderAsymmetry tests that only data rows carry a trailing tab.
func TestWriterHeaderAsymmetry(t *testing.T) {
	t.Parallel()

	table := &Table{
		Schema:  Schema{{Local: "a"}, {Local: "b"}},
		Rows:    [][]string{{"1", "2"}},
		Missing: []int{0, 0},
	}

	tests := []struct {
		name     string
		trailing bool
		want     string
	}{
		{name: "default keeps trailing tab", trailing: true, want: "a\tb\n1\t2\t\n"},
		{name: "normalized drops trailing tab", trailing: false, want: "a\tb\n1\t2\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			n, err := NewWriter(&buf, WithTrailingSeparator(tt.trailing)).Write(table)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.String() != tt.want {
				t.Errorf("expected %q, got %q", tt.want, buf.String())
			}
			if n != len(tt.want) {
				t.Errorf("expected %d bytes reported, got %d", len(tt.want), n)
			}
		})
	}
}

// TestParseErrors tests rejection of malformed and empty documents.
func TestParseErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		doc     string
		wantErr error
	}{
		{name: "unclosed element", doc: `<root><r><a>1</a></r>`},
		{name: "mismatched tags", doc: `<root><r></x></root>`},
		{name: "empty input", doc: ``, wantErr: ErrEmptyDocument},
		{name: "two roots", doc: `<a/><b/>`, wantErr: ErrMultipleRoots},
		{name: "unknown charset", doc: `<?xml version="1.0" encoding="x-no-such-charset"?><root/>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Parse(strings.NewReader(tt.doc))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestParseCharset tests decoding of a declared non-UTF-8 encoding.
func TestParseCharset(t *testing.T) {
	t.Parallel()

	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?><root><r><name>Soci\xe9t\xe9 G\xe9n\xe9rale</name></r></root>"
	root, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if got := root.Children[0].Children[0].Text; got != "Société Générale" {
		t.Errorf("expected decoded text, got %q", got)
	}
}

// TestFlattenNoRecords tests that a root without children is rejected.
func TestFlattenNoRecords(t *testing.T) {
	t.Parallel()

	root, err := Parse(strings.NewReader(`<informationTable/>`))
	if err != nil {
		t.Fatalf("failed to parse: %v", err)
	}
	if _, err := Flatten(root, "N/A "); !errors.Is(err, ErrNoRecords) {
		t.Errorf("expected ErrNoRecords, got %v", err)
	}
}

// TestWriteFile tests file output, truncation and idempotence.
func TestWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("rerun is byte identical and truncates", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "nested", "fund.txt")

		root, err := Parse(strings.NewReader(infoTableXML))
		if err != nil {
			t.Fatalf("failed to parse: %v", err)
		}

		write := func() []byte {
			table, err := Flatten(root, "N/A ")
			if err != nil {
				t.Fatalf("failed to flatten: %v", err)
			}
			if err := WriteFile(path, table); err != nil {
				t.Fatalf("failed to write: %v", err)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read: %v", err)
			}
			return data
		}

		first := write()
		if err := os.WriteFile(path, bytes.Repeat([]byte("stale\n"), 10000), 0600); err != nil {
			t.Fatalf("failed to overwrite: %v", err)
		}
		second := write()

		if !bytes.Equal(first, second) {
			t.Error("expected byte-identical output across runs")
		}
		if string(first) != infoTableTSV {
			t.Errorf("unexpected file contents %q", first)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		blocker := filepath.Join(dir, "file")
		if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
			t.Fatalf("failed to create blocker: %v", err)
		}

		table := &Table{Schema: Schema{{Local: "a"}}, Rows: [][]string{{"1"}}, Missing: []int{0}}
		if err := WriteFile(filepath.Join(blocker, "out.txt"), table); err == nil {
			t.Error("expected error writing below a regular file")
		}
	})
}
