package util

import (
	"net"
	"strings"
)

var (
	// 私有 IP 网段（内网）
	privateCIDRs = []*net.IPNet{
		mustCIDR("10.0.0.0/8"),
		mustCIDR("172.16.0.0/12"),
		mustCIDR("192.168.0.0/16"),
		mustCIDR("127.0.0.0/8"),    // Loopback
		mustCIDR("169.254.0.0/16"), // Link-local
	}
)

// mustCIDR 用于初始化 IP 网段
func mustCIDR(cidr string) *net.IPNet {
	_, ipnet, err := net.ParseCIDR(cidr)
	if err != nil {
		panic("invalid CIDR: " + cidr)
	}
	return ipnet
}

// IsValidIP 验证是否为合法 IP 字面量（IPv4 或 IPv6）。
// 只用来在查询前给出警告，非法行也照样提交查询，保证输入输出行数一致
func IsValidIP(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	return net.ParseIP(s) != nil
}

// IsPublicIP 判断是否为公网 IP；scamalytics 对内网 IP 基本没有数据
func IsPublicIP(s string) bool {
	ip := net.ParseIP(strings.TrimSpace(s))
	if ip == nil {
		return false
	}
	v4 := ip.To4()
	if v4 == nil {
		// IPv6 不在内网网段表里，按公网处理
		return true
	}
	for _, cidr := range privateCIDRs {
		if cidr.Contains(v4) {
			return false
		}
	}
	return true
}
