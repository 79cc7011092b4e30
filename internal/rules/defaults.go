package rules

// SpecialCase is the token the legacy pre-pass replaces before the table
// runs. In the default table it is an ordinary rule placed after every rule
// whose pattern contains it.
var SpecialCase = Rule{Pattern: "Saída", Replacement: "Output"}

const kbdCtrl = `<kbd className="px-1 py-0.5 bg-slate-800 border border-slate-700 rounded text-slate-300 font-mono">Ctrl</kbd>`

// Default returns the built-in Portuguese (pt-BR) to English table for the
// network editor UI. Long, context-bearing phrases come first; bare words last.
func Default() *Table {
	return defaultTable
}

var defaultTable = MustNew(
	// Sentences and sentence fragments.
	Rule{"Você soltou ", "You dropped "},
	Rule{" com a tecla ", " with the "},
	Rule{" pressionada. Quantos nós deseja empilhar?", " key pressed. How many nodes do you want to stack?"},
	Rule{"<b>Dica:</b> Segure " + kbdCtrl + " ao soltar para adicionar múltiplos elementos.",
		"<b>Tip:</b> Hold " + kbdCtrl + " when dropping to add multiple elements."},
	Rule{"Esta conexão funciona apenas para leitura de valor. Ela lê o que saiu do neurônio conectado sem calcular nenhum peso extra.",
		"This connection only works for value reading. It reads what came out of the connected neuron without calculating any extra weight."},
	Rule{"Clique para selecionar o neurônio de Origem", "Click to select the Source neuron"},
	Rule{"Clique para selecionar o neurônio de Destino", "Click to select the Target neuron"},
	Rule{"Existem alterações não salvas. Deseja descartá-las?", "There are unsaved changes. Do you want to discard them?"},
	Rule{"A base de dados não pode ficar vazia.", "The dataset cannot be empty."},
	Rule{"Se era um dataset novo que foi cancelado antes de salvar", "If it was a new dataset that was canceled before saving"},
	Rule{"Se o dataset existente estava vazio quando clicou em editar e cancelou", "If the existing dataset was empty when clicked edit and canceled"},
	Rule{"Filtro para visualização da fatia", "Filter for slice visualization"},

	// Labels with qualifiers.
	Rule{"Selecionar Conexão (Sinapse)", "Select Connection (Synapse)"},
	Rule{"Padrões (Portas Lógicas)", "Patterns (Logic Gates)"},
	Rule{"Distribuição Gráfica (2D)", "Plot Distribution (2D)"},
	Rule{"Origem (Pré)", "Source (Pre)"},
	Rule{"Destino (Pós)", "Target (Post)"},
	Rule{"Conexão de Saída", "Output Connection"},
	Rule{"Selecionar Neurônio", "Select Neuron"},
	Rule{"Erro por Época", "Error per Epoch"},
	Rule{"Superfície de Erro", "Error Surface"},
	Rule{"Métricas Globais", "Global Metrics"},
	Rule{"Época Atual", "Current Epoch"},
	Rule{"Criação em Lote", "Batch Creation"},
	Rule{"Criar Nós", "Create Nodes"},
	Rule{"Nenhuma ação ainda", "No actions yet"},
	Rule{"Tabela Verdade", "Truth Table"},
	Rule{"Porta Lógica:", "Logic Gate:"},
	Rule{"Saída (Cores):", "Output (Colors):"},
	Rule{"Coluna de Saída (Y)", "Output Column (Y)"},
	Rule{"Adicionar Linha", "Add Row"},

	// Button titles.
	Rule{`title="Fechar"`, `title="Close"`},
	Rule{`title="Deletar Matriz"`, `title="Delete Matrix"`},
	Rule{`title="Limpar Desenho"`, `title="Clear Drawing"`},
	Rule{`title="Deletar camada"`, `title="Delete layer"`},

	// Single words.
	Rule{"Deletar", "Delete"},
	Rule{"Histórico", "History"},
	Rule{"Cancelar", "Cancel"},
	Rule{"Salvar", "Save"},
	Rule{"Editar", "Edit"},
	Rule{"Adicionar", "Add"},
	SpecialCase,
	Rule{"nó(s)", "node(s)"},
	Rule{"camada", "layer"},
	Rule{"Mover", "Move"},
	Rule{"Pausar", "Pause"},
	Rule{"Continuar", "Continue"},
	Rule{"Executar", "Execute"},
	Rule{"Novo", "New"},
	Rule{"Carregar", "Load"},
	Rule{"neurônios", "neurons"},
	Rule{"neurônio", "neuron"},
)
