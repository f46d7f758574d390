package query

import (
	"strings"
	"testing"
)

func TestExtractResultRoundTrip(t *testing.T) {
	page := `<html><body><h2>IP Fraud Risk API</h2>
<pre>{
  "ip": "1.2.3.4",
  "score": "42",
  "risk": "high",
  "operator": "Example Telecom",
  "hostname": "host.example.com"
}</pre></body></html>`

	res := ExtractResult(page, "1.2.3.4")

	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.IP != "1.2.3.4" || res.Score != "42" || res.Risk != "high" {
		t.Fatalf("unexpected fields: ip=%q score=%q risk=%q", res.IP, res.Score, res.Risk)
	}
	if res.Extra["operator"] != "Example Telecom" {
		t.Errorf("operator not promoted: %v", res.Extra)
	}
	if res.Extra["hostname"] != "host.example.com" {
		t.Errorf("hostname not promoted: %v", res.Extra)
	}
	if res.RawPayload == nil {
		t.Error("RawPayload should keep the full parsed object")
	}
}

func TestExtractResultPageIPOverridesQueried(t *testing.T) {
	page := `IP Fraud Risk API {"ip":"9.9.9.9","score":"1","risk":"low"}`

	res := ExtractResult(page, "1.2.3.4")
	if res.IP != "9.9.9.9" {
		t.Errorf("page ip should win, got %q", res.IP)
	}
}

func TestExtractResultNestedBraces(t *testing.T) {
	page := `IP Fraud Risk API {"ip":"1.2.3.4","details":{"asn":{"number":64500}},"risk":"low"}`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Risk != "low" {
		t.Errorf("risk lost after nested object, got %q", res.Risk)
	}
	if _, ok := res.RawPayload["details"]; !ok {
		t.Error("nested object should survive in RawPayload")
	}
}

func TestExtractResultTrailingComma(t *testing.T) {
	page := `IP Fraud Risk API {"ip":"1.2.3.4","score":"10",}`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("trailing comma should be tolerated, got error %s", res.Error)
	}
	if res.Score != "10" {
		t.Errorf("score = %q, want 10", res.Score)
	}
}

func TestExtractResultSingleQuotes(t *testing.T) {
	page := `IP Fraud Risk API {'ip':'1.2.3.4','score':'10'}`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("single quoted variant should be tolerated, got error %s", res.Error)
	}
	if res.Score != "10" {
		t.Errorf("score = %q, want 10", res.Score)
	}
}

func TestExtractResultHTMLTagsInsideBlock(t *testing.T) {
	page := `IP Fraud Risk API {"ip":"1.2.3.4","score":"<b>77</b>","risk":"medium"}`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Score != "77" {
		t.Errorf("tags should be stripped from score, got %q", res.Score)
	}
}

func TestExtractResultEllipsisAndComments(t *testing.T) {
	page := "IP Fraud Risk API {\"ip\":\"1.2.3.4\", // comment\n\"score\":\"10\",...}"

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Score != "10" {
		t.Errorf("score = %q, want 10", res.Score)
	}
}

func TestExtractResultNoAnchorNoBrace(t *testing.T) {
	res := ExtractResult("completely unrelated page text", "1.2.3.4")

	if res.Error != "no_json_block_found" {
		t.Errorf("error = %q, want no_json_block_found", res.Error)
	}
	if res.IP != "1.2.3.4" {
		t.Errorf("queried ip must be kept, got %q", res.IP)
	}
}

func TestExtractResultFallbackFieldScrape(t *testing.T) {
	// 有提示文字但后面没有任何 '{'，只能走字段级正则降级
	page := `IP Fraud Risk API "ip":"5.6.7.8", "risk":"high"`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("partial scrape should not be an error, got %s", res.Error)
	}
	if res.IP != "5.6.7.8" || res.Risk != "high" {
		t.Errorf("scraped fields wrong: ip=%q risk=%q", res.IP, res.Risk)
	}
	if res.Score != "" {
		t.Errorf("score should stay empty, got %q", res.Score)
	}
}

func TestExtractResultUnparseableBlockSkipsFallback(t *testing.T) {
	// 块找到了但解析不了时不允许再走正则降级，这个分级顺序是刻意保持的
	page := `IP Fraud Risk API {bad json here "ip":"9.9.9.9" "risk":"high"}`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "json_parse_failed" {
		t.Fatalf("error = %q, want json_parse_failed", res.Error)
	}
	if res.IP != "1.2.3.4" {
		t.Errorf("queried ip must be kept, got %q", res.IP)
	}
	if res.Risk != "" || res.Score != "" {
		t.Errorf("regex fallback must not fire: risk=%q score=%q", res.Risk, res.Score)
	}
	if res.RawSnippet == "" {
		t.Error("RawSnippet should keep the unparseable block")
	}
}

func TestExtractResultUnbalancedBlock(t *testing.T) {
	page := `IP Fraud Risk API {"ip":"1.2.3.4","score":"10"`

	res := ExtractResult(page, "1.2.3.4")
	// 括号到结尾都没配对上，但正则还能抓到字段
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.IP != "1.2.3.4" || res.Score != "10" {
		t.Errorf("scraped fields wrong: ip=%q score=%q", res.IP, res.Score)
	}
}

func TestExtractResultSnippetTruncation(t *testing.T) {
	page := "IP Fraud Risk API {bad " + strings.Repeat("x", 500) + "}"

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "json_parse_failed" {
		t.Fatalf("error = %q, want json_parse_failed", res.Error)
	}
	if got := len([]rune(res.RawSnippet)); got != rawSnippetLimit {
		t.Errorf("snippet length = %d, want %d", got, rawSnippetLimit)
	}
}

func TestExtractJSONBlockWithoutAnchor(t *testing.T) {
	// 没有提示文字时从文本开头降级扫描
	page := `some page {"ip":"1.2.3.4","score":"3","risk":"low"} trailing`

	res := ExtractResult(page, "1.2.3.4")
	if res.Error != "" {
		t.Fatalf("unexpected error: %s", res.Error)
	}
	if res.Score != "3" {
		t.Errorf("score = %q, want 3", res.Score)
	}
}

func TestStringFromAny(t *testing.T) {
	cases := []struct {
		in   interface{}
		want string
	}{
		{"abc", "abc"},
		{float64(42), "42"},
		{true, "true"},
		{nil, ""},
		{[]interface{}{1}, ""},
	}
	for _, c := range cases {
		if got := stringFromAny(c.in); got != c.want {
			t.Errorf("stringFromAny(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}
