package persona

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/glitchcube/glitchcube-go/pkg/core/config"
	"github.com/glitchcube/glitchcube-go/pkg/tools"
)

// Set 已加载的人格集合
type Set struct {
	personas  map[string]*Persona
	defaultID string
}

// NewSet 创建空的人格集合
func NewSet(defaultID string) *Set {
	return &Set{
		personas:  make(map[string]*Persona),
		defaultID: defaultID,
	}
}

// Add 添加人格(同名覆盖)
func (s *Set) Add(p *Persona) {
	if p == nil || p.ID == "" {
		return
	}
	s.personas[p.ID] = p
}

// Get 获取人格
func (s *Set) Get(id string) (*Persona, bool) {
	p, ok := s.personas[id]
	return p, ok
}

// Default 返回默认人格,未配置或不存在时返回 nil
func (s *Set) Default() *Persona {
	return s.personas[s.defaultID]
}

// DefaultID 返回默认人格标识
func (s *Set) DefaultID() string {
	return s.defaultID
}

// IDs 返回所有人格标识,按字典序排列
func (s *Set) IDs() []string {
	ids := make([]string, 0, len(s.personas))
	for id := range s.personas {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Len 返回人格数量
func (s *Set) Len() int {
	return len(s.personas)
}

// ApplyTo 把所有人格的工具白名单注入注册表
//
// 白名单为空的人格不注册,保持注册表的全量回退语义。
func (s *Set) ApplyTo(registry *tools.Registry) {
	for _, p := range s.personas {
		if len(p.Tools) > 0 {
			registry.RegisterPersona(p.ID, p.Tools)
		}
	}
}

// LoadDir 从目录加载所有人格 YAML 文件
//
// 参数:
//   - dir: 人格文件目录
//   - defaultID: 默认人格标识
//
// 返回:
//   - *Set: 人格集合
//   - error: 错误信息
func LoadDir(dir, defaultID string) (*Set, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read persona dir %s: %w", dir, err)
	}

	set := NewSet(defaultID)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		p, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		set.Add(p)
	}

	return set, nil
}

// FromConfig 根据配置加载人格集合
func FromConfig(cfg config.PersonasConfig) (*Set, error) {
	set, err := LoadDir(cfg.Dir, cfg.Default)
	if err != nil {
		return nil, err
	}

	if cfg.Default != "" && set.Len() > 0 {
		if _, ok := set.Get(cfg.Default); !ok {
			return nil, fmt.Errorf("default persona '%s' not found in %s", cfg.Default, cfg.Dir)
		}
	}

	return set, nil
}
