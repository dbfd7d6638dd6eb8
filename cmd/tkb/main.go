package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/pkg/api"
	"github.com/akeil/tkb/pkg/store"
)

const (
	checkmark = "\u2713"
	crossmark = "\u2717"
	ellipsis  = "\u2026"
)

func main() {
	app := kingpin.New("tkb", "Annotate scientific papers")
	app.HelpFlag.Short('h')

	var (
		configFile = app.Flag("config", "Path to the config file").Short('c').String()
		baseURL    = app.Flag("url", "Base URL of the annotation service").Short('u').String()
		verbose    = app.Flag("verbose", "Show debug output").Short('v').Bool()
	)

	papers := app.Command("papers", "List papers").Default()
	var (
		search = papers.Flag("search", "Search term").Short('s').String()
		limit  = papers.Flag("limit", "Maximum number of papers").Short('n').Default("20").Int()
		offset = papers.Flag("offset", "Number of papers to skip").Int()
		order  = papers.Flag("order", "Sort order").String()
	)

	layers := app.Command("layers", "List the annotation layers of a paper")
	var (
		layersPaper    = layers.Arg("paper", "Paper id").Required().String()
		layersClass    = layers.Flag("class", "Only layers of this class or model").String()
		layersMatch    = layers.Flag("match", "Name must match this").Short('m').String()
		layersTraining = layers.Flag("training", "Only training layers").Short('t').Bool()
		layersFormat   = layers.Flag("format", "Output format").Short('f').Default("tree").Enum("tree", "list")
	)

	create := app.Command("create", "Create an annotation layer")
	var (
		createPaper = create.Arg("paper", "Paper id").Required().String()
		createClass = create.Arg("class", "Annotation class or model").Required().String()
		createName  = create.Flag("name", "Layer name").String()
		createFrom  = create.Flag("from", "Extractor that produces the layer").String()
	)

	labels := app.Command("labels", "Show the labels and shortcuts of a class or model")
	labelsID := labels.Arg("class", "Annotation class or model").Required().String()

	boxes := app.Command("boxes", "List the bounding boxes of a layer")
	var (
		boxesPaper = boxes.Arg("paper", "Paper id").Required().String()
		boxesLayer = boxes.Arg("layer", "Layer id").Required().String()
		boxesPage  = boxes.Flag("page", "Only boxes on this page").Short('p').Int()
	)

	label := app.Command("label", "Change the label of a bounding box")
	var (
		labelPaper = label.Arg("paper", "Paper id").Required().String()
		labelLayer = label.Arg("layer", "Layer id").Required().String()
		labelBox   = label.Arg("box", "Bounding box id").Required().String()
		labelValue = label.Arg("label", "New label").Required().String()
	)

	export := app.Command("export", "Export papers with their annotations as PDF")
	var (
		exportPapers = export.Arg("paper", "Paper ids").Required().Strings()
		exportLayers = export.Flag("layer", "Layer id (repeatable), default is the best layer per class").Short('l').Strings()
		exportOutDir = export.Flag("output", "Output directory").Short('o').Default(".").String()
		exportFooter = export.Flag("footer", "Add page numbers").Bool()
	)

	preview := app.Command("preview", "Render the boxes of one page as PNG")
	var (
		previewPaper       = preview.Arg("paper", "Paper id").Required().String()
		previewLayers      = preview.Flag("layer", "Layer id (repeatable), default is the best layer per class").Short('l').Strings()
		previewPage        = preview.Flag("page", "Page number").Short('p').Default("1").Int()
		previewWidth       = preview.Flag("width", "Image width in pixels").Short('w').Int()
		previewBackground  = preview.Flag("background", "Image of the page to paint the boxes on").Short('b').ExistingFile()
		previewTransparent = preview.Flag("transparent", "Transparent background").Bool()
		previewOut         = preview.Flag("output", "Output file").Short('o').String()
	)

	rm := app.Command("rm", "Delete annotation layers or a paper")
	var (
		rmPaper  = rm.Arg("paper", "Paper id").Required().String()
		rmLayers = rm.Arg("layer", "Layer ids, delete the paper if none are given").Strings()
		rmForce  = rm.Flag("force", "Allow to delete a paper").Short('f').Bool()
	)

	tags := app.Command("tags", "Layer tags")
	tags.Command("ls", "List layer tags with their layer counts").Default()
	tagsAdd := tags.Command("add", "Create a layer tag")
	var (
		tagID       = tagsAdd.Arg("id", "Tag id").Required().String()
		tagName     = tagsAdd.Flag("name", "Display name, default is the id").Short('n').String()
		tagReadonly = tagsAdd.Flag("readonly", "Layers with this tag cannot be changed").Bool()
		tagTraining = tagsAdd.Flag("training", "Layers with this tag are training data").Bool()
	)

	put := app.Command("put", "Upload one or more PDF documents")
	var (
		putPaths = put.Arg("path", "PDF files").Required().Strings()
		putID    = put.Flag("id", "Paper id (single file only), default is the file name").String()
	)

	watch := app.Command("watch", "Show notifications from the service")
	watchPaper := watch.Flag("paper", "Only events for this paper").Short('p').String()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	s, err := loadSettings(*configFile)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if *baseURL != "" {
		s.url = *baseURL
	}
	if *verbose {
		s.logLevel = "debug"
	}
	tkb.SetLogLevel(s.logLevel)
	tkb.SetLogFormat(s.logFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	switch command {
	case "papers":
		err = doPapers(ctx, s, *search, *limit, *offset, *order)
	case "layers":
		err = doLayers(ctx, s, *layersPaper, *layersClass, *layersMatch, *layersTraining, *layersFormat)
	case "create":
		err = doCreate(ctx, s, *createPaper, *createClass, *createName, *createFrom)
	case "labels":
		err = doLabels(ctx, s, *labelsID)
	case "boxes":
		err = doBoxes(ctx, s, *boxesPaper, *boxesLayer, *boxesPage)
	case "label":
		err = doLabel(ctx, s, *labelPaper, *labelLayer, *labelBox, *labelValue)
	case "export":
		err = doExport(ctx, s, *exportPapers, *exportLayers, *exportOutDir, *exportFooter)
	case "preview":
		err = doPreview(ctx, s, *previewPaper, *previewLayers, previewOptions{
			page:        *previewPage,
			width:       *previewWidth,
			background:  *previewBackground,
			transparent: *previewTransparent,
			out:         *previewOut,
		})
	case "rm":
		err = doRm(ctx, s, *rmPaper, *rmLayers, *rmForce)
	case "tags ls":
		err = doTags(ctx, s)
	case "tags add":
		err = doTagAdd(ctx, s, *tagID, *tagName, *tagReadonly, *tagTraining)
	case "put":
		err = doPut(ctx, s, *putPaths, *putID)
	case "watch":
		err = doWatch(ctx, s, *watchPaper)
	default:
		err = fmt.Errorf("unknown command: %q", command)
	}

	if err != nil {
		fmt.Printf("Error: %v\n", tkb.ErrorMessage(err))
		stop()
		os.Exit(1)
	}
}

// common ---------------------------------------------------------------------

func setupClient(s settings) *api.Client {
	client := api.NewClient(s.url, s.timeout)
	if s.cacheDir != "" {
		client.SetCache(tkb.NewFilesystemCache(s.cacheDir))
	}
	return client
}

func setupStore(s settings) (*api.Client, *store.Store) {
	client := setupClient(s)
	return client, store.New(client, s.cacheTTL)
}

// findSchema looks up an annotation class or a layer model by id.
// Classes take precedence.
func findSchema(ctx context.Context, repo tkb.Repository, id string) (*tkb.AnnotationClass, *tkb.Model, error) {
	classes, err := repo.Classes(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range classes {
		if classes[i].ID == id {
			return &classes[i], nil, nil
		}
	}

	models, err := repo.Models(ctx)
	if err != nil {
		return nil, nil, err
	}
	for i := range models {
		if models[i].ID == id {
			return nil, &models[i], nil
		}
	}

	return nil, nil, tkb.NewNotFound("no class or model %q", id)
}
