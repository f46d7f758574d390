package database

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"

	_ "modernc.org/sqlite"

	"github.com/kuuhaku-00/go-scamalytics/internal/model"
)

// InitDB 打开内存sqlite并建结果表。这里只做一次批处理的中转汇总，
// 不落盘；连接数限制为1，不然连接池里每个新连接都会拿到一个空的内存库
func InitDB(tableName string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	// 设置数据库编码为UTF-8
	if _, err := db.Exec("PRAGMA encoding = 'UTF-8'"); err != nil {
		return nil, err
	}

	createStmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    ip TEXT,
    score TEXT,
    risk TEXT,
    error TEXT,
    raw_json TEXT
);
`, tableName)

	if _, err := db.Exec(createStmt); err != nil {
		return nil, err
	}

	return db, nil
}

// SaveResults 逐条写入结果，一个输入IP对应一行，重复IP不去重
func SaveResults(db *sql.DB, tableName string, results []model.LookupResult) error {
	insertSQL := fmt.Sprintf(`
INSERT INTO %s (ip, score, risk, error, raw_json)
VALUES (?, ?, ?, ?, ?);
`, tableName)

	tx, err := db.Begin()
	if err != nil {
		return err
	}

	insertStmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return err
	}
	defer insertStmt.Close()

	for _, r := range results {
		if _, err := insertStmt.Exec(r.IP, r.Score, r.Risk, r.Error, rawJSONFor(r)); err != nil {
			log.Printf("insert error for IP %s: %v", r.IP, err)
			continue
		}
	}

	return tx.Commit()
}

// rawJSONFor 计算 raw_json 列：解析成功时是完整payload的序列化，
// 解析失败时是留下的原始片段，其余情况为空
func rawJSONFor(r model.LookupResult) string {
	if r.RawPayload != nil {
		if b, err := json.Marshal(r.RawPayload); err == nil {
			return string(b)
		}
	}
	return r.RawSnippet
}

// CountRows 查询表内总行数
func CountRows(db *sql.DB, tableName string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s", tableName)
	if err := db.QueryRow(query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountErrors 查询失败行数，用于结束时的汇总输出
func CountErrors(db *sql.DB, tableName string) (int, error) {
	var count int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE error != ''", tableName)
	if err := db.QueryRow(query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
