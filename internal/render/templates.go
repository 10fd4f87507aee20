package render

import "strings"

// statsTemplate builds the statistics panel prepended when the marker
// enables stats.
func statsTemplate(opts Options) string {
	var b strings.Builder
	b.WriteString(`<div class="panel panel-default"><div class="panel-body">`)
	b.WriteString(`Publications: {{.meta.publications}} <small><span class="text-muted">( {{.meta.types_html_list}} )</span></small>`)
	b.WriteString(`<br>Cites: {{.meta.cites}} <small><span class="text-muted">( `)
	if opts.ScholarLink != "" {
		b.WriteString(`according to <a href="` + opts.ScholarLink + `" target="_blank">Google Scholar</a>, `)
	}
	b.WriteString(`Updated {{.meta.cite_update_string}} )</span></small>`)
	b.WriteString(`</div></div>`)
	return b.String()
}

// builtinTemplates are the named fallback templates used when a marker
// carries no inline template text.
var builtinTemplates = map[string]string{
	"publications": tmplPublications,
	"latest":       tmplLatest,
	"minimal":      tmplMinimal,
	"news":         tmplNews,
	"supervisions": tmplSupervisions,
	"item":         tmplItem,
	"item-minimal": tmplItemMinimal,
}

const tmplPublications = `<div class="panel-group" id="accordion" role="tablist">
{{range .years}}<h3>{{.year}}</h3>
{{range .items}}<div class="panel publication-item" id="{{.key}}">
  <div class="panel-heading" role="tab">
    <div class="row">
      <div class="col-md-1"><span class="{{.type_label_css}}">{{.type_label_short}}</span></div>
      <div class="col-xs-8">
        <p style="text-align:left">{{.text}}
        {{if .award}}<span class="label label-success">{{.award}}</span>{{end}}
        {{if .cites}}<span title="Number of citations" class="badge">{{.cites}} {{if eq .cites 1}}cite{{else}}cites{{end}}</span>{{end}}
        </p>
        <button type="button" class="btn btn-default btn-xs" data-toggle="collapse" data-parent="#accordion" href="#collapse{{.key}}">Read more...</button>
      </div>
      <div class="col-xs-3">
        <div class="btn-group">
          <button type="button" class="btn btn-xs btn-danger" data-toggle="modal" data-target="#bibtex{{.key}}">Bib</button>
          {{if .pdf}}<a href="{{.pdf}}" class="btn btn-xs btn-warning" title="Download pdf">PDF</a>{{end}}
          {{if .demo}}<a href="{{.demo}}" class="btn btn-xs btn-primary" title="Demo">Demo</a>{{end}}
          {{if .toolbox}}<a href="{{.toolbox}}" class="btn btn-xs btn-success" title="Toolbox">Toolbox</a>{{end}}
          {{if .data1}}<a href="{{.data1.url}}" class="btn btn-xs btn-info" title="{{.data1.title}}">Data</a>{{end}}
          {{if .data2}}<a href="{{.data2.url}}" class="btn btn-xs btn-info" title="{{.data2.title}}">Data</a>{{end}}
        </div>
      </div>
    </div>
  </div>
  <div id="collapse{{.key}}" class="panel-collapse collapse" role="tabpanel">
    <div class="panel-body well well-sm">
      <h4>{{.title}}</h4>
      {{if .abstract}}<h5>Abstract</h5><p class="text-justify">{{.abstract}}</p>{{end}}
      {{if .keywords}}<h5>Keywords</h5><p class="text-justify">{{.keywords}}</p>{{end}}
      {{if .award}}<p><strong>Awards:</strong> {{.award}}</p>{{end}}
      {{if .cites}}<p><strong>Cites:</strong> {{.cites}} (<a href="{{.citation_url}}" target="_blank">see at Google Scholar</a>)</p>{{end}}
      <div class="btn-group">
        {{if .slides}}<a href="{{.slides}}" class="btn btn-sm btn-info" title="Download slides">Slides</a>{{end}}
        {{if .poster}}<a href="{{.poster}}" class="btn btn-sm btn-info" title="Download poster">Poster</a>{{end}}
        {{if .webpublication}}<a href="{{.webpublication.url}}" class="btn btn-sm btn-info" title="{{.webpublication.title}}">Web publication</a>{{end}}
        {{if .code1}}<a href="{{.code1.url}}" class="btn btn-sm btn-success" title="{{.code1.title}}">{{.code1.title}}</a>{{end}}
        {{if .code2}}<a href="{{.code2.url}}" class="btn btn-sm btn-success" title="{{.code2.title}}">{{.code2.title}}</a>{{end}}
        {{if .git1}}<a href="{{.git1.url}}" class="btn btn-sm btn-success" title="{{.git1.title}}">{{.git1.title}}</a>{{end}}
        {{if .link1}}<a href="{{.link1.url}}" class="btn btn-sm btn-info" title="{{.link1.title}}">{{.link1.title}}</a>{{end}}
        {{if .link2}}<a href="{{.link2.url}}" class="btn btn-sm btn-info" title="{{.link2.title}}">{{.link2.title}}</a>{{end}}
      </div>
    </div>
  </div>
</div>
<div class="modal fade" id="bibtex{{.key}}" tabindex="-1" role="dialog">
  <div class="modal-dialog"><div class="modal-content">
    <div class="modal-header"><h4 class="modal-title">{{.title}}</h4></div>
    <div class="modal-body"><pre>{{.bibtex}}</pre></div>
    <div class="modal-footer"><button type="button" class="btn btn-default" data-dismiss="modal">Close</button></div>
  </div></div>
</div>
{{end}}{{end}}</div>`

const tmplLatest = `{{range .years}}<h3>{{.year}}</h3>
{{range .items}}<div class="row publication-item">
  <div class="col-md-1"><span class="{{.type_label_css}}">{{.type_label_short}}</span></div>
  <div class="col-xs-8">{{.text}}
    {{if .award}}<span class="label label-success">{{.award}}</span>{{end}}
    {{if .target_page}}<a href="{{.target_page}}#{{.key}}" title="Read more..."></a>{{end}}
  </div>
  <div class="col-xs-3">
    <div class="btn-group">
      {{if .pdf}}<a href="{{.pdf}}" class="btn btn-xs btn-warning" title="Download pdf">PDF</a>{{end}}
      {{if .demo}}<a href="{{.demo}}" class="btn btn-xs btn-primary" title="Demo">Demo</a>{{end}}
    </div>
  </div>
</div>
{{end}}{{end}}`

const tmplMinimal = `{{range .years}}<strong class="text-muted">{{.year}}</strong>
{{range .items}}<div class="row">
  <div class="col-md-1"><span class="{{.type_label_css}}">{{.type_label_short}}</span></div>
  <div class="col-md-11"><p style="text-align:left">{{.text}}
  {{if .award}}<span class="label label-success">{{.award}}</span>{{end}}
  {{if .cites}}<span title="Number of citations" class="badge">{{.cites}} {{if eq .cites 1}}cite{{else}}cites{{end}}</span>{{end}}
  {{if .pdf}}<a href="{{.pdf}}" title="Download pdf"><span class="glyphicon glyphicon-file"></span></a>{{end}}
  </p></div>
</div>
{{end}}{{end}}`

const tmplNews = `<ul class="list-group">
{{range .publications}}<li class="list-group-item">
  <span class="{{.type_label_css}}">{{.type_label_short}}</span>
  {{if .target_page}}<a href="{{.target_page}}#{{.key}}">{{.title}}</a>{{else}}{{.title}}{{end}}
  <small class="text-muted">{{.authors_text}}, {{.year}}</small>
  {{if .award}}<span class="label label-success">{{.award}}</span>{{end}}
</li>
{{end}}</ul>`

const tmplSupervisions = `<div class="panel-group" id="accordion" role="tablist">
{{range .years}}<h3>{{.year}}</h3>
{{range .items}}<div class="panel publication-item" id="{{.key}}">
  <div class="row">
    <div class="col-md-1"><span class="{{.type_label_css}}">{{.type_label_short}}</span></div>
    <div class="col-xs-8">{{.text}}
      {{if .award}}<span class="label label-success">{{.award}}</span>{{end}}
    </div>
    <div class="col-xs-3">
      <div class="btn-group">
        {{if .pdf}}<a href="{{.pdf}}" class="btn btn-xs btn-warning" title="Download pdf">PDF</a>{{end}}
        {{if .demo}}<a href="{{.demo}}" class="btn btn-xs btn-primary" title="Demo">Demo</a>{{end}}
      </div>
    </div>
  </div>
  <div class="panel-body well well-sm">
    {{if .abstract}}<h5>Abstract</h5><p class="text-justify">{{.abstract}}</p>{{end}}
    {{if .clients}}<h5>Clients</h5><p class="text-justify">{{.clients}}</p>{{end}}
  </div>
</div>
{{end}}{{end}}</div>`

const tmplItem = `{{range .publications}}<div class="publication-item" id="{{.key}}">
  <h3>{{.title}}</h3>
  <p>{{.text}}
  {{if .award}}<span class="label label-success">{{.award}}</span>{{end}}
  {{if .cites}}<span title="Number of citations" class="badge">{{.cites}} {{if eq .cites 1}}cite{{else}}cites{{end}}</span>{{end}}
  </p>
  {{if .abstract}}<h5>Abstract</h5><p class="text-justify">{{.abstract}}</p>{{end}}
  {{if .keywords}}<h5>Keywords</h5><p class="text-justify">{{.keywords}}</p>{{end}}
  <div class="btn-group">
    {{if .pdf}}<a href="{{.pdf}}" class="btn btn-sm btn-warning" title="Download pdf">PDF</a>{{end}}
    {{if .slides}}<a href="{{.slides}}" class="btn btn-sm btn-info" title="Download slides">Slides</a>{{end}}
    {{if .demo}}<a href="{{.demo}}" class="btn btn-sm btn-primary" title="Demo">Demo</a>{{end}}
    {{if .webpublication}}<a href="{{.webpublication.url}}" class="btn btn-sm btn-info" title="{{.webpublication.title}}">Web publication</a>{{end}}
  </div>
  <h5>Cite as</h5><pre>{{.bibtex}}</pre>
</div>
{{end}}`

const tmplItemMinimal = `{{range .publications}}<div class="publication-item" id="{{.key}}">
  <p>{{.text}}
  {{if .pdf}}<a href="{{.pdf}}" title="Download pdf">PDF</a>{{end}}
  </p>
</div>
{{end}}`
