package model

// LookupResult 是单个IP查询scamalytics后的标准化结果。成功、解析失败、
// 网络失败各自都会产生一条，Error非空表示该IP这次没拿到完整数据
type LookupResult struct {
	IP         string                 // 查询的IP，解析成功时以页面返回的为准
	Score      string                 // 欺诈风险分数，页面里本来就是字符串，保持原样
	Risk       string                 // 风险等级，例如 low/medium/high
	Extra      map[string]interface{} // 附加字段：operator/hostname/asn/is_blacklisted_external
	RawPayload map[string]interface{} // 解析出的完整JSON块，下游可以从这里拿未提升的字段
	Error      string                 // 失败原因：http_error / no_json_block_found / json_parse_failed / exception
	RawSnippet string                 // 解析失败时保留的原始片段（截断200字符），便于排查
}
