// Package catalog 车辆品牌/车型目录
//
// 目录文件是品牌列表，每个品牌包含若干车型，车型可带细分类型：
//
//	[{"brand": "Toyota", "models": [{"title": "Corolla", "types": ["Sedan", "Wagon"]}]}]
//
// 同时支持 JSON 与 YAML，按文件扩展名选择解码器。
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

var (
	// ErrUnsupportedFormat 无法识别的目录文件格式
	ErrUnsupportedFormat = errors.New("catalog: unsupported format")
	// ErrInvalidCatalog 目录内容不合法
	ErrInvalidCatalog = errors.New("catalog: invalid content")
)

// Format 目录文件格式
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Model 车型
type Model struct {
	Title string   `json:"title" yaml:"title"`
	Types []string `json:"types,omitempty" yaml:"types,omitempty"`
}

// Brand 品牌
type Brand struct {
	Name   string  `json:"brand" yaml:"brand"`
	Models []Model `json:"models" yaml:"models"`
}

// Catalog 只读目录，加载后不再修改，可并发读取
type Catalog struct {
	brands []Brand
	index  map[string]int
}

// Entry 展开后的一条 品牌-车型 记录，用于批量导入
type Entry struct {
	Maker string
	Model string
	Types []string
}

// Load 从文件加载目录
func Load(path string) (*Catalog, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	return Parse(f, format)
}

// FormatOf 按扩展名判断格式
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Parse 按指定格式解码并校验目录
func Parse(r io.Reader, format Format) (*Catalog, error) {
	var brands []Brand
	switch format {
	case FormatJSON:
		if err := json.NewDecoder(r).Decode(&brands); err != nil {
			return nil, fmt.Errorf("catalog: decode json: %w", err)
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&brands); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog: decode yaml: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return New(brands)
}

// New 校验并建立索引
// 品牌名不能为空或重复，同一品牌下车型名不能为空或重复；所有问题一次性报告
func New(brands []Brand) (*Catalog, error) {
	var errs error
	index := make(map[string]int, len(brands))
	for i, b := range brands {
		if strings.TrimSpace(b.Name) == "" {
			errs = multierr.Append(errs, fmt.Errorf("%w: brand #%d has no name", ErrInvalidCatalog, i))
			continue
		}
		if _, dup := index[b.Name]; dup {
			errs = multierr.Append(errs, fmt.Errorf("%w: duplicate brand %q", ErrInvalidCatalog, b.Name))
			continue
		}
		index[b.Name] = i

		titles := make(map[string]bool, len(b.Models))
		for j, m := range b.Models {
			switch {
			case strings.TrimSpace(m.Title) == "":
				errs = multierr.Append(errs, fmt.Errorf("%w: %s model #%d has no title", ErrInvalidCatalog, b.Name, j))
			case titles[m.Title]:
				errs = multierr.Append(errs, fmt.Errorf("%w: %s has duplicate model %q", ErrInvalidCatalog, b.Name, m.Title))
			}
			titles[m.Title] = true
		}
	}
	if errs != nil {
		return nil, errs
	}
	return &Catalog{brands: brands, index: index}, nil
}

// BrandNames 品牌名，按文件顺序
func (c *Catalog) BrandNames() []string {
	names := make([]string, 0, len(c.brands))
	for _, b := range c.brands {
		names = append(names, b.Name)
	}
	return names
}

// Brand 按名称精确查找品牌（区分大小写）
func (c *Catalog) Brand(name string) (Brand, bool) {
	i, ok := c.index[name]
	if !ok {
		return Brand{}, false
	}
	return c.brands[i], true
}

// Model 查找品牌下的车型
func (c *Catalog) Model(brand, title string) (Model, bool) {
	b, ok := c.Brand(brand)
	if !ok {
		return Model{}, false
	}
	for _, m := range b.Models {
		if m.Title == title {
			return m, true
		}
	}
	return Model{}, false
}

// Titles 车型名列表
func (b Brand) Titles() []string {
	titles := make([]string, 0, len(b.Models))
	for _, m := range b.Models {
		titles = append(titles, m.Title)
	}
	return titles
}

// HasType 车型是否包含指定细分类型
func (m Model) HasType(t string) bool {
	for _, v := range m.Types {
		if v == t {
			return true
		}
	}
	return false
}

// Entries 展开为 品牌-车型 列表；没有车型的品牌也会产出一条 Model 为空的记录
func (c *Catalog) Entries() []Entry {
	var entries []Entry
	for _, b := range c.brands {
		if len(b.Models) == 0 {
			entries = append(entries, Entry{Maker: b.Name})
			continue
		}
		for _, m := range b.Models {
			entries = append(entries, Entry{Maker: b.Name, Model: m.Title, Types: m.Types})
		}
	}
	return entries
}

// Len 品牌数量
func (c *Catalog) Len() int {
	return len(c.brands)
}
