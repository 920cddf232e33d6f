package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// RenderDefaultYAML renders a hideblock.yaml holding every option from
// GetConfigOptions at its default, each preceded by its comment.
func RenderDefaultYAML() (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, o := range GetConfigOptions() {
		var value yaml.Node
		if err := value.Encode(o.Default); err != nil {
			return "", errors.Wrapf(err, "failed to encode default of %s", o.Key)
		}
		key := setPath(root, strings.Split(o.Key, "."), &value)
		key.HeadComment = o.Comment
	}

	doc := &yaml.Node{
		Kind:        yaml.DocumentNode,
		HeadComment: "hideblock configuration",
		Content:     []*yaml.Node{root},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		return "", errors.Wrap(err, "failed to render default config")
	}
	return string(out), nil
}

// RenderEffectiveYAML renders the settings v resolved from defaults, the
// config file and the environment.
func RenderEffectiveYAML(v *viper.Viper) (string, error) {
	out, err := yaml.Marshal(v.AllSettings())
	if err != nil {
		return "", errors.Wrap(err, "failed to render config")
	}
	return string(out), nil
}

// setPath stores value under the dotted path in the mapping node m,
// creating intermediate mappings, and returns the key node of the leaf.
func setPath(m *yaml.Node, path []string, value *yaml.Node) *yaml.Node {
	for i := 0; i < len(m.Content); i += 2 {
		if m.Content[i].Value != path[0] {
			continue
		}
		if len(path) == 1 {
			m.Content[i+1] = value
			return m.Content[i]
		}
		return setPath(m.Content[i+1], path[1:], value)
	}

	key := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: path[0]}
	if len(path) == 1 {
		m.Content = append(m.Content, key, value)
		return key
	}
	child := &yaml.Node{Kind: yaml.MappingNode}
	m.Content = append(m.Content, key, child)
	return setPath(child, path[1:], value)
}
