package query

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/kuuhaku-00/go-scamalytics/internal/model"
)

// jsonMarker 页面上JSON块前面的提示文字，用来定位扫描起点
const jsonMarker = "IP Fraud Risk API"

// rawSnippetLimit 解析失败时保留的原始片段长度（字符数）
const rawSnippetLimit = 200

var (
	htmlTagRe     = regexp.MustCompile(`<[^>]+>`)
	lineCommentRe = regexp.MustCompile(`(?m)//.*$`)
	trailingObjRe = regexp.MustCompile(`,\s*}`)
	trailingArrRe = regexp.MustCompile(`,\s*]`)

	fieldIPRe    = regexp.MustCompile(`"ip"\s*:\s*"([^"]+)"`)
	fieldScoreRe = regexp.MustCompile(`"score"\s*:\s*"([^"]+)"`)
	fieldRiskRe  = regexp.MustCompile(`"risk"\s*:\s*"([^"]+)"`)
)

// extraFieldKeys 解析成功时额外提升到Extra里的字段白名单
var extraFieldKeys = []string{"is_blacklisted_external", "operator", "hostname", "asn"}

// ExtractResult 从页面文本里提取该IP的风险数据，分三级降级：
//  1. 括号配对提取完整JSON块并解析
//  2. 块提取不出来时，直接正则抓取单个字段
//  3. 块提取出来但两次解析都失败时，返回json_parse_failed并保留原始片段
//
// 注意第2级只在完全找不到块时才会走；找到了但解析失败的块不会再去
// 走正则降级，这个分级顺序是刻意保持的
func ExtractResult(pageText, ip string) model.LookupResult {
	block, ok := extractJSONBlock(pageText)
	if !ok {
		return scrapeFields(pageText, ip)
	}

	parsed, ok := parsePayload(block)
	if !ok {
		return model.LookupResult{
			IP:         ip,
			Error:      "json_parse_failed",
			RawSnippet: truncateRunes(block, rawSnippetLimit),
		}
	}

	return promoteFields(parsed, ip)
}

// extractJSONBlock 从提示文字后找到第一个 '{'，用括号计数扫到配对的 '}'，
// 再做清理。没有提示文字时从文本开头找（可能抓到不相关的块，属于降级行为）
func extractJSONBlock(text string) (string, bool) {
	pos := strings.Index(text, jsonMarker)
	if pos == -1 {
		pos = 0
	}

	start := strings.Index(text[pos:], "{")
	if start == -1 {
		return "", false
	}
	start += pos

	depth := 0
	end := -1
	for i := start; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				end = i + 1
			}
		}
		if end != -1 {
			break
		}
	}
	if end == -1 {
		// 括号到文本结尾都没配对上
		return "", false
	}

	return sanitizeBlock(text[start:end]), true
}

// sanitizeBlock 清理块里混进来的HTML标签、页面省略号、JS注释和尾随逗号，
// 尽量把模板渲染出来的近似JSON修成合法JSON
func sanitizeBlock(candidate string) string {
	candidate = stripHTMLTags(candidate)
	// 页面有时用 "..." 占位省略内容，留着会解析失败
	candidate = strings.ReplaceAll(candidate, "...", "")
	candidate = lineCommentRe.ReplaceAllString(candidate, "")
	candidate = trailingObjRe.ReplaceAllString(candidate, "}")
	candidate = trailingArrRe.ReplaceAllString(candidate, "]")
	return candidate
}

// stripHTMLTags 把片段当HTML解析取纯文本，顺带把实体还原；解析不了时退回正则
func stripHTMLTags(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return htmlTagRe.ReplaceAllString(s, "")
	}
	return doc.Text()
}

// parsePayload 先按标准JSON解析，失败后把单引号换成双引号再试一次
// （部分页面变体用了单引号）
func parsePayload(block string) (map[string]interface{}, bool) {
	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(block), &parsed); err == nil {
		return parsed, true
	}

	relaxed := strings.ReplaceAll(block, "'", `"`)
	if err := json.Unmarshal([]byte(relaxed), &parsed); err == nil {
		return parsed, true
	}

	return nil, false
}

// promoteFields 把解析结果里的常用字段提升到结构化字段，完整对象留在RawPayload
func promoteFields(parsed map[string]interface{}, ip string) model.LookupResult {
	res := model.LookupResult{IP: ip, RawPayload: parsed}

	if v := stringFromAny(parsed["ip"]); v != "" {
		res.IP = v
	}
	if v, ok := parsed["score"]; ok {
		res.Score = stringFromAny(v)
	}
	if v, ok := parsed["risk"]; ok {
		res.Risk = stringFromAny(v)
	}

	for _, k := range extraFieldKeys {
		if v, ok := parsed[k]; ok {
			if res.Extra == nil {
				res.Extra = make(map[string]interface{})
			}
			res.Extra[k] = v
		}
	}

	return res
}

// scrapeFields 完全提取不出JSON块时的最后手段：直接在原始文本里正则抓
// ip/score/risk 三个字段，一个都抓不到才算彻底失败
func scrapeFields(pageText, ip string) model.LookupResult {
	res := model.LookupResult{IP: ip}
	matched := false

	if m := fieldIPRe.FindStringSubmatch(pageText); m != nil {
		res.IP = m[1]
		matched = true
	}
	if m := fieldScoreRe.FindStringSubmatch(pageText); m != nil {
		res.Score = m[1]
		matched = true
	}
	if m := fieldRiskRe.FindStringSubmatch(pageText); m != nil {
		res.Risk = m[1]
		matched = true
	}

	if !matched {
		return model.LookupResult{IP: ip, Error: "no_json_block_found"}
	}
	return res
}
