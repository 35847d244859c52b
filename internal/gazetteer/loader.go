package gazetteer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/internal/normalizer"
	"github.com/zh-address-parser/internal/parser"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"
)

// Các encoding được hỗ trợ của file nguồn
const (
	EncodingUTF8 = "utf-8"
	EncodingGBK  = "gbk"
)

// Dataset dữ liệu gazetteer đã nạp và làm giàu
type Dataset struct {
	Units   []models.AdminUnit
	Version string
}

// LoadOptions tùy chọn đọc file nguồn
type LoadOptions struct {
	Encoding string
}

// splitFiles bố cục bốn file: mỗi cấp một file, code cha theo tên trường riêng
var splitFiles = []struct {
	name  string
	level parser.Level
}{
	{"provinces.json", parser.LevelProvince},
	{"cities.json", parser.LevelCity},
	{"areas.json", parser.LevelDistrict},
	{"streets.json", parser.LevelStreet},
}

type splitUnit struct {
	Code         string `json:"code"`
	Name         string `json:"name"`
	ProvinceCode string `json:"provinceCode"`
	CityCode     string `json:"cityCode"`
	AreaCode     string `json:"areaCode"`
}

func (u splitUnit) parentCode(level parser.Level) string {
	switch level {
	case parser.LevelCity:
		return u.ProvinceCode
	case parser.LevelDistrict:
		return u.CityCode
	case parser.LevelStreet:
		return u.AreaCode
	}
	return ""
}

type flatUnit struct {
	Code       string `json:"code" yaml:"code"`
	Name       string `json:"name" yaml:"name"`
	Level      int    `json:"level" yaml:"level"`
	ParentCode string `json:"parent_code" yaml:"parent_code"`
}

// LoadPath nạp gazetteer từ thư mục (bố cục bốn file) hoặc một file danh sách phẳng
// JSON/YAML. File có đuôi .xz được giải nén.
func LoadPath(path string, opts LoadOptions) (*Dataset, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc nguồn gazetteer: %w", err)
	}
	if info.IsDir() {
		return loadSplitDir(path, opts)
	}

	data, err := readSource(path, opts.Encoding)
	if err != nil {
		return nil, err
	}
	units, err := DecodeFlat(data, formatOf(path))
	if err != nil {
		return nil, fmt.Errorf("lỗi parse %s: %w", path, err)
	}
	sum := blake3.Sum256(data)
	return &Dataset{Units: Enrich(units), Version: fmt.Sprintf("blake3:%x", sum)}, nil
}

func loadSplitDir(dir string, opts LoadOptions) (*Dataset, error) {
	hasher := blake3.New()
	var units []models.AdminUnit

	for _, sf := range splitFiles {
		path, ok := findFile(dir, sf.name)
		if !ok {
			if sf.level == parser.LevelStreet {
				// streets.json không bắt buộc
				continue
			}
			return nil, fmt.Errorf("thiếu file %s trong %s", sf.name, dir)
		}

		data, err := readSource(path, opts.Encoding)
		if err != nil {
			return nil, err
		}
		_, _ = hasher.Write(data)

		var rows []splitUnit
		if err := json.Unmarshal(data, &rows); err != nil {
			return nil, fmt.Errorf("lỗi parse %s: %w", path, err)
		}
		for _, r := range rows {
			units = append(units, models.AdminUnit{
				Code:       r.Code,
				Name:       r.Name,
				Level:      int(sf.level),
				ParentCode: r.parentCode(sf.level),
			})
		}
	}

	return &Dataset{Units: Enrich(units), Version: fmt.Sprintf("blake3:%x", hasher.Sum(nil))}, nil
}

// findFile tìm name hoặc name.xz
func findFile(dir, name string) (string, bool) {
	for _, candidate := range []string{name, name + ".xz"} {
		path := filepath.Join(dir, candidate)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}

func formatOf(path string) string {
	ext := strings.ToLower(filepath.Ext(strings.TrimSuffix(path, ".xz")))
	if ext == ".yaml" || ext == ".yml" {
		return "yaml"
	}
	return "json"
}

// readSource đọc toàn bộ file, giải nén xz và chuyển GBK về UTF-8 nếu cần
func readSource(path, encoding string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lỗi mở file %s: %w", path, err)
	}
	defer f.Close()

	var r io.Reader = f
	if strings.HasSuffix(path, ".xz") {
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("lỗi giải nén xz %s: %w", path, err)
		}
		r = xr
	}
	r, err = decodeReader(r, encoding)
	if err != nil {
		return nil, err
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("lỗi đọc file %s: %w", path, err)
	}
	return data, nil
}

func decodeReader(r io.Reader, encoding string) (io.Reader, error) {
	switch strings.ToLower(encoding) {
	case "", EncodingUTF8, "utf8":
		return r, nil
	case EncodingGBK:
		return transform.NewReader(r, simplifiedchinese.GBK.NewDecoder()), nil
	}
	return nil, fmt.Errorf("encoding không được hỗ trợ: %s", encoding)
}

// DecodeFlat parse danh sách phẳng {code, name, level, parent_code}
func DecodeFlat(data []byte, format string) ([]models.AdminUnit, error) {
	var rows []flatUnit
	var err error
	if format == "yaml" {
		err = yaml.NewDecoder(bytes.NewReader(data)).Decode(&rows)
	} else {
		err = json.Unmarshal(data, &rows)
	}
	if err != nil && err != io.EOF {
		return nil, err
	}

	units := make([]models.AdminUnit, 0, len(rows))
	for _, r := range rows {
		units = append(units, models.AdminUnit{
			Code:       r.Code,
			Name:       r.Name,
			Level:      r.Level,
			ParentCode: r.ParentCode,
		})
	}
	return units, nil
}

// Enrich chuẩn hóa tên và bổ sung pinyin, tên ASCII và danh sách tiền tố
func Enrich(units []models.AdminUnit) []models.AdminUnit {
	for i := range units {
		u := &units[i]
		u.Code = strings.TrimSpace(u.Code)
		u.ParentCode = strings.TrimSpace(u.ParentCode)
		u.Name = strings.TrimSpace(u.Name)
		u.Pinyin = normalizer.Pinyin(u.Name)
		u.PinyinInitials = normalizer.PinyinInitials(u.Name)
		u.NormalizedName = normalizer.ASCIIFold(u.Name)
		u.Prefixes = normalizer.Prefixes(u.Name)
	}
	return units
}

// DigestUnits phiên bản cho dữ liệu truyền trực tiếp (không qua file)
func DigestUnits(units []models.AdminUnit) (string, error) {
	data, err := json.Marshal(units)
	if err != nil {
		return "", fmt.Errorf("lỗi encode units: %w", err)
	}
	sum := blake3.Sum256(data)
	return fmt.Sprintf("blake3:%x", sum), nil
}

// EncodeXZ nén data bằng xz, dùng khi xuất dữ liệu gazetteer
func EncodeXZ(w io.Writer, data []byte) error {
	xw, err := xz.NewWriter(w)
	if err != nil {
		return fmt.Errorf("lỗi tạo xz writer: %w", err)
	}
	if _, err := xw.Write(data); err != nil {
		return fmt.Errorf("lỗi ghi xz: %w", err)
	}
	return xw.Close()
}
