//go:build !opencc || !cgo

package opencc

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	simplifiedPassage  = "凉风有讯，秋月无边，亏我思娇的情绪好比度日如年。虽然我不是玉树临风，潇洒倜傥，但我有广阔的胸襟，加强劲的臂弯。"
	traditionalPassage = "涼風有訊，秋月無邊，虧我思嬌的情緒好比度日如年。雖然我不是玉樹臨風，瀟灑倜儻，但我有廣闊的胸襟，加強勁的臂彎。"
)

func openMaterialized(t *testing.T, p Preset) *Converter {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, MaterializePreset(dir, p))
	c, err := OpenPresetDir(dir, p)
	require.NoError(t, err, p.String())
	t.Cleanup(func() { c.Close() })
	return c
}

func TestGoccTW2SP(t *testing.T) {
	c := openMaterialized(t, TW2SP)

	out, err := c.Convert(traditionalPassage)
	require.NoError(t, err)
	assert.Equal(t, simplifiedPassage, out)

	first, err := c.Convert("涼風有訊，秋月無邊")
	require.NoError(t, err)
	assert.Equal(t, "凉风有讯，秋月无边", first)

	buf, err := c.ConvertAppend([]byte(first), "，虧我思嬌")
	require.NoError(t, err)
	assert.Equal(t, "凉风有讯，秋月无边，亏我思娇", string(buf))

	out, err = c.Convert("滑鼠")
	require.NoError(t, err)
	assert.Equal(t, "鼠标", out, "phrase tables apply before characters")
}

func TestGoccS2TWP(t *testing.T) {
	c := openMaterialized(t, S2TWP)

	out, err := c.Convert(simplifiedPassage)
	require.NoError(t, err)
	assert.Equal(t, traditionalPassage, out)

	buf, err := c.ConvertAppend([]byte("凉风有讯，"), "秋月无边")
	require.NoError(t, err)
	assert.Equal(t, "凉风有讯，秋月無邊", string(buf))
}

func TestGoccRoundTrip(t *testing.T) {
	tests := []struct {
		forward, backward Preset
		text, middle      string
	}{
		{S2T, T2S, "头发很长，东西很贵", "頭髮很長，東西很貴"},
		{T2JP, JP2T, "國學", "国学"},
		{T2HK, HK2T, "衛生", "衞生"},
	}
	for _, tt := range tests {
		t.Run(tt.forward.String(), func(t *testing.T) {
			f := openMaterialized(t, tt.forward)
			b := openMaterialized(t, tt.backward)

			mid, err := f.Convert(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.middle, mid)
			back, err := b.Convert(mid)
			require.NoError(t, err)
			assert.Equal(t, tt.text, back)
		})
	}
}

func TestGoccAllPresetsOpen(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, MaterializePresets(dir, Presets()...))
	for _, p := range Presets() {
		c, err := OpenPresetDir(dir, p)
		require.NoError(t, err, p.String())
		require.NoError(t, c.Close())

		// 不带目录的名称使用内置资源
		c, err = OpenPreset(p)
		require.NoError(t, err, p.String())
		require.NoError(t, c.Close())
	}
}

func TestGoccUserConfigUnderAnyName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, MaterializePreset(dir, T2S))
	raw, err := os.ReadFile(filepath.Join(dir, T2S.ConfigFile()))
	require.NoError(t, err)
	mine := filepath.Join(dir, "my.json")
	require.NoError(t, os.WriteFile(mine, raw, 0o644))

	c, err := Open(mine)
	require.NoError(t, err)
	defer c.Close()
	out, err := c.Convert("涼風有訊")
	require.NoError(t, err)
	assert.Equal(t, "凉风有讯", out)
}

func TestGoccUserDictionary(t *testing.T) {
	dir := t.TempDir()
	// 最后一行没有换行
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine.txt"), []byte("秋月\t春花\n無邊\t有盡"), 0o644))
	cfg := filepath.Join(dir, "custom.json")
	require.NoError(t, os.WriteFile(cfg, []byte(`{
  "name": "custom",
  "conversion_chain": [{"dict": {"type": "text", "file": "mine.txt"}}]
}`), 0o644))

	c, err := Open(cfg)
	require.NoError(t, err)
	defer c.Close()
	out, err := c.Convert("秋月無邊")
	require.NoError(t, err)
	assert.Equal(t, "春花有盡", out)
}

func TestGoccRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name    string
		content string
		files   []string
	}{
		{"not json", "this is not json", nil},
		{"no chain", `{"name": "x"}`, nil},
		{"missing dictionary", `{"conversion_chain": [{"dict": {"type": "text", "file": "Absent.txt"}}]}`, nil},
		{"missing segmentation dictionary", `{
  "segmentation": {"type": "mmseg", "dict": {"type": "text", "file": "Absent.txt"}},
  "conversion_chain": [{"dict": {"type": "text", "file": "a.txt"}}]
}`, []string{"a.txt"}},
		{"binary dictionary", `{"conversion_chain": [{"dict": {"type": "ocd2", "file": "a.ocd2"}}]}`, []string{"a.ocd2"}},
		{"empty group", `{"conversion_chain": [{"dict": {"type": "group", "dicts": []}}]}`, nil},
		{"escaping path", `{"conversion_chain": [{"dict": {"type": "text", "file": "../a.txt"}}]}`, nil},
		{"step without dict", `{"conversion_chain": [{}]}`, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			for _, f := range tt.files {
				require.NoError(t, os.WriteFile(filepath.Join(dir, f), []byte("a\tb\n"), 0o644))
			}
			// 名称与内置方案相同也必须读取文件内容
			cfg := filepath.Join(dir, "t2s.json")
			require.NoError(t, os.WriteFile(cfg, []byte(tt.content), 0o644))

			c, err := Open(cfg)
			assert.ErrorIs(t, err, ErrConfigLoad)
			assert.Nil(t, c)
		})
	}
}

func TestGoccRejectsMissingOrDirectoryConfig(t *testing.T) {
	dir := t.TempDir()
	_, err := Open(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrConfigLoad)

	_, err = Open(dir + string(filepath.Separator) + ".")
	assert.ErrorIs(t, err, ErrConfigLoad)

	_, err = Open("nope.json")
	assert.ErrorIs(t, err, ErrConfigLoad)
}

func TestGoccConvertToBufferTooSmall(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, MaterializePreset(dir, T2S))
	eng, err := openNative(filepath.Join(dir, T2S.ConfigFile()))
	require.NoError(t, err)
	defer eng.close()

	_, err = eng.convertTo(make([]byte, 2), "涼風")
	assert.EqualError(t, err, "output buffer too small")

	buf := make([]byte, 16)
	n, err := eng.convertTo(buf, "涼風")
	require.NoError(t, err)
	assert.Equal(t, "凉风", string(buf[:n]))
}
