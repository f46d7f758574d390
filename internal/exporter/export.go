package exporter

import (
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
)

// ExportTableToCSV 把结果表按写入顺序导出成CSV报告，列顺序固定
func ExportTableToCSV(db *sql.DB, tableName, outputPath string) error {
	query := fmt.Sprintf("SELECT ip, score, risk, error, raw_json FROM %s ORDER BY id", tableName)
	rows, err := db.Query(query)
	if err != nil {
		return err
	}
	defer rows.Close()

	file, err := os.Create(outputPath)
	if err != nil {
		return err
	}
	defer file.Close()

	// 写入UTF-8 BOM，确保Excel等软件能正确识别中文
	file.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// 写入表头
	writer.Write([]string{"ip", "score", "risk", "error", "raw_json"})

	for rows.Next() {
		var ip, score, risk, errMsg, rawJSON string

		if err := rows.Scan(&ip, &score, &risk, &errMsg, &rawJSON); err != nil {
			return err
		}

		writer.Write([]string{ip, score, risk, errMsg, rawJSON})
	}

	return rows.Err()
}
