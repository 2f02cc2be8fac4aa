package engine

import (
	"fmt"
	"math/rand"
	"regexp"
	"strconv"
	"strings"
	"time"

	"db-bootstrap/internal/schema"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/lib/pq"
)

var seededRand = rand.New(rand.NewSource(time.Now().UnixNano()))

var lengthPattern = regexp.MustCompile(`\(\s*(\d+)`)

// typeLength extracts N from VARCHAR(N) / DECIMAL(N, M); 0 if absent.
func typeLength(sqlType string) int {
	m := lengthPattern.FindStringSubmatch(sqlType)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

func truncate(s string, limit int) string {
	if limit <= 0 {
		return s
	}
	runes := []rune(s)
	if len(runes) > limit {
		return string(runes[:limit])
	}
	return s
}

// IsGenerated reports whether the database fills the column itself
// (SERIAL, IDENTITY, AUTO_INCREMENT, GENERATED ...), so inserts must skip it.
func IsGenerated(col schema.Column) bool {
	t := strings.ToLower(col.Type)
	c := strings.ToLower(col.Constraints)
	return strings.Contains(t, "serial") ||
		strings.Contains(c, "identity") ||
		strings.Contains(c, "auto_increment") ||
		strings.Contains(c, "generated")
}

// IsUnique reports whether duplicate values would be rejected.
func IsUnique(col schema.Column) bool {
	c := strings.ToUpper(col.Constraints)
	return strings.Contains(c, "UNIQUE") || strings.Contains(c, "PRIMARY KEY")
}

// GenerateValue generates a random value based on column definition.
func GenerateValue(col schema.Column) any {
	dataType := strings.ToLower(strings.TrimSpace(col.Type))
	meaning := schema.AnalyzeMeaning(col.Name)

	// 0. Postgres array columns (VARCHAR(50)[])
	if strings.HasSuffix(dataType, "[]") {
		elem := col
		elem.Type = strings.TrimSuffix(col.Type, "[]")
		n := seededRand.Intn(3) + 1
		vals := make([]string, n)
		for i := range vals {
			vals[i] = fmt.Sprint(GenerateValue(elem))
		}
		return pq.Array(vals)
	}

	length := typeLength(dataType)

	// 1. 문자열 타입 (Meaning 우선)
	if strings.Contains(dataType, "char") || strings.Contains(dataType, "text") ||
		strings.Contains(dataType, "clob") || strings.Contains(dataType, "string") {
		return truncate(stringByMeaning(meaning, length), length)
	}

	// 2. 날짜/시간 타입 (drivers bind time.Time natively)
	if strings.Contains(dataType, "date") || strings.Contains(dataType, "time") {
		return gofakeit.DateRange(time.Now().AddDate(-30, 0, 0), time.Now()).UTC().Truncate(time.Second)
	}

	// 3. 숫자 타입
	if strings.Contains(dataType, "int") || strings.Contains(dataType, "number") {
		if meaning == "pages" {
			return gofakeit.Number(48, 1200)
		}
		if strings.Contains(dataType, "tinyint") {
			return gofakeit.Number(0, 127)
		}
		if strings.Contains(dataType, "smallint") {
			return gofakeit.Number(1, 30000)
		}
		return gofakeit.Number(1, 50000)
	}
	if strings.Contains(dataType, "decimal") || strings.Contains(dataType, "numeric") ||
		strings.Contains(dataType, "float") || strings.Contains(dataType, "double") ||
		strings.Contains(dataType, "real") || strings.Contains(dataType, "money") {
		return gofakeit.Price(0.99, 99.99)
	}

	// 4. 불린 타입
	if strings.Contains(dataType, "bool") || dataType == "bit" {
		return gofakeit.Bool()
	}

	if strings.Contains(dataType, "uuid") || strings.Contains(dataType, "uniqueidentifier") {
		return gofakeit.UUID()
	}

	// 5. 바이너리 타입
	if strings.Contains(dataType, "binary") || strings.Contains(dataType, "blob") || strings.Contains(dataType, "bytea") {
		return []byte(gofakeit.Word())
	}

	return nil
}

func stringByMeaning(meaning string, length int) string {
	switch meaning {
	case "isbn":
		return gofakeit.Numerify("978-#-##-######-#")
	case "name", "author":
		return gofakeit.Name()
	case "title":
		return strings.TrimSuffix(gofakeit.Sentence(3), ".")
	case "email":
		return gofakeit.Email()
	case "phone":
		return gofakeit.Phone()
	case "address":
		return gofakeit.Street()
	case "city":
		return gofakeit.City()
	case "country":
		return gofakeit.Country()
	case "language":
		return gofakeit.Language()
	case "date":
		return gofakeit.DateRange(time.Now().AddDate(-30, 0, 0), time.Now()).Format("2006-01-02")
	case "pages":
		return strconv.Itoa(gofakeit.Number(48, 1200))
	case "description":
		return gofakeit.Sentence(12)
	}

	// 기본 텍스트
	if length > 0 && length < 20 {
		return gofakeit.Word()
	}
	return gofakeit.Sentence(5)
}
