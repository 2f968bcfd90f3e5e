package maps

import (
	"context"
	"encoding/json"
	"testing"

	"atlasref/internal/cards"
	"atlasref/internal/components/telemetry"
	"atlasref/internal/config"
	"atlasref/internal/fetch"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var testMapConfig = config.MapConfig{
	List:  "https://poedb.tw/us/Maps",
	Poedb: detailTemplate,
	Cards: "https://www.poewiki.net/api.php?action=parse&format=json&page={}",
	Wiki:  "https://www.poewiki.net/wiki/{}",
}

var knownCards = []cards.Card{
	{Name: "Her Mask"},
	{Name: "Rain of Chaos"},
	{Name: "The Doctor"},
}

var strand = Summary{Name: "Strand Map", Tier: 4, Poedb: "https://poedb.tw/us/Strand_Map"}

func strandFake(t *testing.T, detailFixture string) *fetch.Fake {
	return fetch.NewFake(map[string]string{
		strand.Poedb: readFixture(t, detailFixture),
		"https://www.poewiki.net/api.php?action=parse&format=json&page=Strand_Map": readFixture(t, "strand_wiki.json"),
	})
}

func TestDetail(t *testing.T) {
	fake := strandFake(t, "strand_detail.html")
	tel := telemetry.NewRecorder()
	scraper := NewScraper(fake, newSheets(fake), tel)

	ratings := []Rating{{Name: "Strand", Layout: "9", Density: "8", Boss: "2"}}
	detail, err := scraper.Detail(context.Background(), strand, cards.Names(knownCards), ratings, testMapConfig)
	require.NoError(t, err)

	expected := Detail{
		Summary: strand,
		Boss: Boss{
			Names:     []string{"Brood of Merveil", "Merveil, the Returned"},
			BasedOn:   "Merveil",
			Notes:     "Spawns adds in phase two",
			Separated: true,
		},
		Layout: Layout{
			Tileset:      "Beach",
			FewObstacles: true,
			Outdoors:     true,
		},
		Rating:    RatingValues{Found: true, Layout: "9", Density: "8", Boss: "2"},
		Connected: []string{"Arcade Map", "Beach Map", "Whakawairua Tuahu"},
		Pantheon:  "Tukohama, God of War",
		Cards:     []string{"Her Mask", "Rain of Chaos", "The Doctor"},
		Wiki:      "https://www.poewiki.net/wiki/Strand_Map",
	}
	if diff := cmp.Diff(expected, detail); diff != "" {
		t.Fatal(diff)
	}
	require.Empty(t, tel.Reports(telemetry.KindWarning))
}

func TestDetailUniqueVariantPanels(t *testing.T) {
	fake := strandFake(t, "unique_detail.html")
	tel := telemetry.NewRecorder()
	scraper := NewScraper(fake, newSheets(fake), tel)

	detail, err := scraper.Detail(context.Background(), strand, cards.Names(knownCards), nil, testMapConfig)
	require.NoError(t, err)

	require.Equal(t, "Beach", detail.Layout.Tileset)
	require.Empty(t, detail.Pantheon)
	require.Equal(t, RatingValues{}, detail.Rating)
	require.Equal(t, []string{"Rain of Chaos", "The Doctor"}, detail.Cards)
	require.Len(t, tel.Warnings(report_detail_row), 1)
}

func TestDetailStructureChanged(t *testing.T) {
	table := []struct {
		name     string
		html     string
		expected error
	}{
		{
			name:     "no container",
			html:     `<div class="tabs"></div>`,
			expected: ErrNoContainer,
		},
		{
			name:     "no extras panel",
			html:     `<div class="tab-content"><div id="a"><table><tbody><tr><td>Tileset</td><td>Beach</td></tr></tbody></table></div></div>`,
			expected: ErrNoPanel,
		},
		{
			name:     "no table",
			html:     `<div class="tab-content"><div id="a"><p>Tileset: Beach</p></div><div id="b"></div></div>`,
			expected: ErrNoTable,
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			fake := fetch.NewFake(map[string]string{strand.Poedb: test.html})
			tel := telemetry.NewRecorder()
			scraper := NewScraper(fake, newSheets(fake), tel)

			_, err := scraper.Detail(context.Background(), strand, nil, nil, testMapConfig)
			require.ErrorIs(t, err, test.expected)
			require.NotEmpty(t, tel.Reports(telemetry.KindBroken))
		})
	}
}

func TestDetailMalformedWiki(t *testing.T) {
	fake := strandFake(t, "strand_detail.html")
	fake.Bodies["https://www.poewiki.net/api.php?action=parse&format=json&page=Strand_Map"] = `{"error":{"code":"missingtitle"}}`
	scraper := NewScraper(fake, newSheets(fake), telemetry.NewRecorder())

	_, err := scraper.Detail(context.Background(), strand, nil, nil, testMapConfig)
	require.ErrorIs(t, err, ErrMalformedWiki)
}

func TestDetailsAbortsOnFirstFailure(t *testing.T) {
	fake := strandFake(t, "strand_detail.html")
	scraper := NewScraper(fake, newSheets(fake), telemetry.NewRecorder())

	arcade := Summary{Name: "Arcade Map", Tier: 11, Poedb: "https://poedb.tw/us/Arcade_Map"}
	out, err := scraper.Details(context.Background(), []Summary{arcade, strand}, knownCards, nil, testMapConfig)
	require.Error(t, err)
	require.Nil(t, out)
	require.Equal(t, []string{arcade.Poedb}, fake.Requested)
}

func TestDetailsSerialization(t *testing.T) {
	fake := strandFake(t, "strand_detail.html")
	tel := telemetry.NewRecorder()
	scraper := NewScraper(fake, newSheets(fake), tel)

	out, err := scraper.Details(context.Background(), []Summary{strand}, knownCards, nil, testMapConfig)
	require.NoError(t, err)
	require.Len(t, tel.Warnings(report_detail_rating), 1)

	serialized, err := json.Marshal(out)
	require.NoError(t, err)
	require.JSONEq(t, `[{
		"name": "Strand Map",
		"tier": 4,
		"poedb": "https://poedb.tw/us/Strand_Map",
		"boss": {
			"names": ["Brood of Merveil", "Merveil, the Returned"],
			"based_on": "Merveil",
			"notes": "Spawns adds in phase two",
			"separated": true
		},
		"layout": {"tileset": "Beach", "few_obstacles": true, "outdoors": true},
		"rating": {},
		"connected": ["Arcade Map", "Beach Map", "Whakawairua Tuahu"],
		"pantheon": "Tukohama, God of War",
		"cards": ["Her Mask", "Rain of Chaos", "The Doctor"],
		"wiki": "https://www.poewiki.net/wiki/Strand_Map"
	}]`, string(serialized))

	var reparsed []Detail
	require.NoError(t, json.Unmarshal(serialized, &reparsed))
	if diff := cmp.Diff(out, reparsed); diff != "" {
		t.Fatal(diff)
	}
}

func TestWikiName(t *testing.T) {
	require.Equal(t, "Strand_Map", WikiName("Strand Map"))
	require.Equal(t, "Maze_of_the_Minotaur_Map", WikiName("Maze of the Minotaur Map"))
}

func TestParseWikiCards(t *testing.T) {
	out, err := ParseWikiCards(`<span class="divicard-header">A</span><span class="other">B</span><div><span class="divicard-header x"> C </span></div>`)
	require.NoError(t, err)
	require.Equal(t, []string{"A", "C"}, out)
}

func TestDetailEscapesWikiName(t *testing.T) {
	table := []struct {
		name     string
		cardsUrl string
		wiki     string
	}{
		{
			name:     "Maelström of Chaos Map",
			cardsUrl: "https://www.poewiki.net/api.php?action=parse&format=json&page=Maelstr%C3%B6m_of_Chaos_Map",
			wiki:     "https://www.poewiki.net/wiki/Maelstr%C3%B6m_of_Chaos_Map",
		},
		{
			name:     "Rock & Roll Map",
			cardsUrl: "https://www.poewiki.net/api.php?action=parse&format=json&page=Rock_%26_Roll_Map",
			wiki:     "https://www.poewiki.net/wiki/Rock_&_Roll_Map",
		},
	}

	for _, test := range table {
		t.Run(test.name, func(t *testing.T) {
			summary := Summary{Name: test.name, Tier: 1, Poedb: "https://poedb.tw/us/Escaped_Map"}
			fake := fetch.NewFake(map[string]string{
				summary.Poedb: readFixture(t, "strand_detail.html"),
				test.cardsUrl: readFixture(t, "strand_wiki.json"),
			})
			scraper := NewScraper(fake, newSheets(fake), telemetry.NewRecorder())

			detail, err := scraper.Detail(context.Background(), summary, cards.Names(knownCards), nil, testMapConfig)
			require.NoError(t, err)
			require.Equal(t, []string{summary.Poedb, test.cardsUrl}, fake.Requested)
			require.Equal(t, test.wiki, detail.Wiki)
		})
	}
}
