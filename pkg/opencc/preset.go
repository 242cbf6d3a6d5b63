package opencc

import (
	"slices"
	"strconv"
	"strings"
)

// Preset 是 OpenCC 自带的转换方案
type Preset int

const (
	HK2S  Preset = iota // 繁体（香港）到简体
	HK2T                // 繁体（香港）到繁体（OpenCC 标准）
	JP2T                // 日本新字体到旧字体
	S2HK                // 简体到繁体（香港）
	S2T                 // 简体到繁体
	S2TW                // 简体到繁体（台湾）
	S2TWP               // 简体到繁体（台湾），转换台湾常用词汇
	T2HK                // 繁体（OpenCC 标准）到香港异体字
	T2JP                // 旧字体到日本新字体
	T2S                 // 繁体到简体
	T2TW                // 繁体（OpenCC 标准）到台湾异体字
	TW2S                // 繁体（台湾）到简体
	TW2SP               // 繁体（台湾）到简体，转换大陆常用词汇
	TW2T                // 繁体（台湾）到繁体（OpenCC 标准）
)

// 词典文件名，与配置文件中的 file 字段一致
const (
	hkVariants            = "HKVariants.txt"
	hkVariantsRev         = "HKVariantsRev.txt"
	hkVariantsRevPhrases  = "HKVariantsRevPhrases.txt"
	jpShinjitaiCharacters = "JPShinjitaiCharacters.txt"
	jpShinjitaiPhrases    = "JPShinjitaiPhrases.txt"
	jpVariants            = "JPVariants.txt"
	jpVariantsRev         = "JPVariantsRev.txt"
	stCharacters          = "STCharacters.txt"
	stPhrases             = "STPhrases.txt"
	tsCharacters          = "TSCharacters.txt"
	tsPhrases             = "TSPhrases.txt"
	twPhrases             = "TWPhrases.txt"
	twPhrasesRev          = "TWPhrasesRev.txt"
	twVariants            = "TWVariants.txt"
	twVariantsRev         = "TWVariantsRev.txt"
	twVariantsRevPhrases  = "TWVariantsRevPhrases.txt"
)

type presetInfo struct {
	name        string
	description string
	dicts       []string
}

// catalog 按 Preset 取值排列，词典顺序与上游打包的方案保持一致
var catalog = [...]presetInfo{
	HK2S: {"hk2s", "Traditional Chinese (Hong Kong Standard) to Simplified Chinese",
		[]string{tsPhrases, hkVariantsRevPhrases, hkVariantsRev, tsCharacters}},
	HK2T: {"hk2t", "Traditional Chinese (Hong Kong Standard) to Traditional Chinese",
		[]string{hkVariantsRevPhrases, hkVariantsRev}},
	JP2T: {"jp2t", "New Japanese Kanji (Shinjitai) to Traditional Chinese Characters (Kyūjitai)",
		[]string{jpShinjitaiPhrases, jpShinjitaiCharacters, jpVariantsRev}},
	S2HK: {"s2hk", "Simplified Chinese to Traditional Chinese (Hong Kong Standard)",
		[]string{stPhrases, stCharacters, hkVariants}},
	S2T: {"s2t", "Simplified Chinese to Traditional Chinese",
		[]string{stPhrases, stCharacters}},
	S2TW: {"s2tw", "Simplified Chinese to Traditional Chinese (Taiwan Standard)",
		[]string{stPhrases, stCharacters, twVariants}},
	S2TWP: {"s2twp", "Simplified Chinese to Traditional Chinese (Taiwan Standard) with Taiwanese idiom",
		[]string{stPhrases, stCharacters, twPhrases, twVariants}},
	T2HK: {"t2hk", "Traditional Chinese (OpenCC Standard) to Hong Kong Standard",
		[]string{hkVariants}},
	T2JP: {"t2jp", "Traditional Chinese Characters (Kyūjitai) to New Japanese Kanji (Shinjitai)",
		[]string{jpVariants}},
	T2S: {"t2s", "Traditional Chinese to Simplified Chinese",
		[]string{tsPhrases, tsCharacters}},
	T2TW: {"t2tw", "Traditional Chinese (OpenCC Standard) to Taiwan Standard",
		[]string{twVariants}},
	TW2S: {"tw2s", "Traditional Chinese (Taiwan Standard) to Simplified Chinese",
		[]string{tsPhrases, twVariantsRevPhrases, twVariantsRev, tsCharacters}},
	TW2SP: {"tw2sp", "Traditional Chinese (Taiwan Standard) to Simplified Chinese with Mainland Chinese idiom",
		[]string{tsPhrases, twPhrasesRev, twVariantsRevPhrases, twVariantsRev, tsCharacters}},
	TW2T: {"tw2t", "Traditional Chinese (Taiwan Standard) to Traditional Chinese",
		[]string{twVariantsRevPhrases, twVariantsRev}},
}

// Presets 返回全部方案
func Presets() []Preset {
	ps := make([]Preset, len(catalog))
	for i := range catalog {
		ps[i] = Preset(i)
	}
	return ps
}

// ParsePreset 按名称解析方案，接受 "tw2sp"、"TW2SP" 或 "tw2sp.json"
func ParsePreset(name string) (Preset, error) {
	key := strings.TrimSuffix(strings.ToLower(strings.TrimSpace(name)), ".json")
	for i, info := range catalog {
		if info.name == key {
			return Preset(i), nil
		}
	}
	return 0, wrapf(ErrUnknownPreset, "%q", name)
}

// Valid 判断 p 是否在目录表中
func (p Preset) Valid() bool {
	return p >= 0 && int(p) < len(catalog)
}

func (p Preset) String() string {
	if !p.Valid() {
		return "Preset(" + strconv.Itoa(int(p)) + ")"
	}
	return catalog[p].name
}

// ConfigFile 返回方案的配置文件名，例如 "tw2sp.json"
func (p Preset) ConfigFile() string {
	return p.String() + ".json"
}

// Description 返回方案说明
func (p Preset) Description() string {
	if !p.Valid() {
		return ""
	}
	return catalog[p].description
}

// Files 返回方案依赖的全部文件，配置文件在前，词典在后
func (p Preset) Files() []string {
	if !p.Valid() {
		return nil
	}
	files := make([]string, 0, len(catalog[p].dicts)+1)
	files = append(files, p.ConfigFile())
	return append(files, catalog[p].dicts...)
}

// Dictionaries 返回方案依赖的词典文件
func (p Preset) Dictionaries() []string {
	if !p.Valid() {
		return nil
	}
	return slices.Clone(catalog[p].dicts)
}
