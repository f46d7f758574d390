package loader

import (
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
)

// ReadLines 读取每行一条记录的文本文件（IP列表、UA列表都用这个），
// 去掉首尾空白并跳过空行。Windows上导出的文件常见GBK编码，这里先探测
// 编码，不是UTF-8就按GBK转一次
func ReadLines(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	// 读取一小部分内容来检测编码
	buf := make([]byte, 1024)
	n, err := file.Read(buf)
	if err != nil && err != io.EOF {
		return nil, err
	}

	if _, err := file.Seek(0, 0); err != nil {
		return nil, err
	}

	var reader io.Reader = file
	if !looksLikeUTF8(buf[:n]) {
		reader = transform.NewReader(file, simplifiedchinese.GBK.NewDecoder())
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	var lines []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}

	return lines, nil
}

// looksLikeUTF8 检查字节序列是否符合UTF-8编码规则
func looksLikeUTF8(buf []byte) bool {
	for i := 0; i < len(buf); i++ {
		if buf[i] < 0x80 {
			continue
		}
		if i+1 < len(buf) && (buf[i]&0xE0) == 0xC0 && (buf[i+1]&0xC0) == 0x80 {
			i++
		} else if i+2 < len(buf) && (buf[i]&0xF0) == 0xE0 && (buf[i+1]&0xC0) == 0x80 && (buf[i+2]&0xC0) == 0x80 {
			i += 2
		} else {
			return false
		}
	}
	return true
}
